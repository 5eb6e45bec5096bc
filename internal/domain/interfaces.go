package domain

import (
	"context"
	"time"

	"guesthouse/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Repository interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetAllRooms(ctx context.Context) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	UpdateRoomStatus(ctx context.Context, id int64, status string) error
	ReleaseRoom(ctx context.Context, id int64) error
	DeleteRoom(ctx context.Context, id int64) error
	ClearRooms(ctx context.Context) error

	CreateGuest(ctx context.Context, guest *models.Guest) error
	GetGuest(ctx context.Context, id int64) (*models.Guest, error)
	GetAllGuests(ctx context.Context) ([]*models.Guest, error)
	GetActiveGuests(ctx context.Context) ([]*models.Guest, error)
	GetExpiredCheckoutCandidates(ctx context.Context, now time.Time) ([]*models.Guest, error)
	UpdateGuest(ctx context.Context, guest *models.Guest) error
	CheckoutGuestWithVersion(ctx context.Context, id, fromVersion int64) error
	DeleteGuest(ctx context.Context, id int64) error
	DetachGuestsFromRoom(ctx context.Context, roomID int64) error
	ClearGuests(ctx context.Context) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetAllExpenses(ctx context.Context) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// CacheRepository holds short-lived derived state: the analytics snapshot
// and per-client rate-limit windows. Implementations: memory, redis, and a
// failover wrapper over both.
type CacheRepository interface {
	GetSnapshot(ctx context.Context) (*models.AnalyticsSummary, error)
	SetSnapshot(ctx context.Context, snapshot *models.AnalyticsSummary) error
	InvalidateSnapshot(ctx context.Context) error
	CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts ledger synchronization jobs.
type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, guestID int64, guest *models.Guest) error
}

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
