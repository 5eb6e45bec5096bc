package service

import (
	"context"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

type GuestService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewGuestService(repo domain.Repository, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *GuestService {
	return &GuestService{
		repo:         repo,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

func (s *GuestService) validate(guest *models.Guest) error {
	if guest.Name == "" {
		return ErrNameRequired
	}
	if guest.Phone == "" {
		return ErrPhoneRequired
	}
	if guest.TotalAmount < 0 || guest.PaidAmount < 0 {
		return ErrInvalidAmount
	}
	if guest.CheckOut != nil && guest.CheckOut.Before(truncateToDay(guest.CheckIn)) {
		return ErrCheckOutBeforeCheckIn
	}
	if guest.CheckOutTime != "" {
		if _, err := time.Parse("15:04", guest.CheckOutTime); err != nil {
			return ErrInvalidCheckOutTime
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateGuest validates the booking, recomputes the pending projection,
// claims the assigned room, and announces the change.
func (s *GuestService) CreateGuest(ctx context.Context, guest *models.Guest) error {
	if err := s.validate(guest); err != nil {
		return err
	}
	if guest.CheckIn.IsZero() {
		guest.CheckIn = time.Now()
	}

	// Pending is a projection of total and paid, never caller-supplied.
	guest.PendingAmount = guest.TotalAmount - guest.PaidAmount

	if guest.RoomID != nil {
		room, err := s.claimRoom(ctx, *guest.RoomID)
		if err != nil {
			return err
		}
		guest.RoomNumber = room.RoomNumber
	}

	if err := s.repo.CreateGuest(ctx, guest); err != nil {
		// The claimed room would leak; best effort to give it back.
		if guest.RoomID != nil {
			_ = s.repo.ReleaseRoom(ctx, *guest.RoomID)
		}
		return err
	}

	s.publishEvent(events.EventGuestsChanged, guest, "api")
	if guest.RoomID != nil {
		s.publishEvent(events.EventRoomsChanged, guest, "api")
	}
	s.enqueueSync(ctx, guest, "upsert")

	return nil
}

// UpdateGuest applies a version-guarded update and keeps the room state in
// step when the booking moves between rooms.
func (s *GuestService) UpdateGuest(ctx context.Context, guest *models.Guest) error {
	if err := s.validate(guest); err != nil {
		return err
	}

	existing, err := s.repo.GetGuest(ctx, guest.ID)
	if err != nil {
		return err
	}

	guest.PendingAmount = guest.TotalAmount - guest.PaidAmount
	guest.CheckedOut = existing.CheckedOut

	roomChanged := !sameRoom(existing.RoomID, guest.RoomID)
	if roomChanged && guest.RoomID != nil {
		room, err := s.claimRoom(ctx, *guest.RoomID)
		if err != nil {
			return err
		}
		guest.RoomNumber = room.RoomNumber
	}

	if err := s.repo.UpdateGuest(ctx, guest); err != nil {
		if roomChanged && guest.RoomID != nil {
			_ = s.repo.ReleaseRoom(ctx, *guest.RoomID)
		}
		return err
	}

	if roomChanged && existing.RoomID != nil {
		if err := s.repo.ReleaseRoom(ctx, *existing.RoomID); err != nil {
			s.logger.Error().Err(err).Int64("room_id", *existing.RoomID).Msg("failed to release previous room")
		}
	}

	s.publishEvent(events.EventGuestsChanged, guest, "api")
	if roomChanged {
		s.publishEvent(events.EventRoomsChanged, guest, "api")
	}
	s.enqueueSync(ctx, guest, "upsert")

	return nil
}

// CheckoutGuest closes the booking through the same compare-and-swap the
// reconciler uses, so a manual checkout racing a scheduled pass still flips
// the row exactly once.
func (s *GuestService) CheckoutGuest(ctx context.Context, id, version int64) error {
	if err := s.repo.CheckoutGuestWithVersion(ctx, id, version); err != nil {
		return err
	}

	guest, err := s.repo.GetGuest(ctx, id)
	if err == nil {
		s.publishEvent(events.EventGuestCheckedOut, guest, "manual")
		s.publishEvent(events.EventGuestsChanged, guest, "manual")
		s.publishEvent(events.EventRoomsChanged, guest, "manual")
		s.enqueueSync(ctx, guest, "upsert")
	}

	return nil
}

func (s *GuestService) DeleteGuest(ctx context.Context, id int64) error {
	guest, err := s.repo.GetGuest(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteGuest(ctx, id); err != nil {
		return err
	}

	// An active booking held its room; free it.
	if !guest.CheckedOut && guest.RoomID != nil {
		if err := s.repo.ReleaseRoom(ctx, *guest.RoomID); err != nil {
			s.logger.Error().Err(err).Int64("room_id", *guest.RoomID).Msg("failed to release room of deleted booking")
		}
		s.publishEvent(events.EventRoomsChanged, guest, "api")
	}
	s.publishEvent(events.EventGuestsChanged, guest, "api")
	s.enqueueSync(ctx, guest, "delete")

	return nil
}

func (s *GuestService) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	return s.repo.GetGuest(ctx, id)
}

func (s *GuestService) GetAllGuests(ctx context.Context) ([]*models.Guest, error) {
	return s.repo.GetAllGuests(ctx)
}

func (s *GuestService) GetActiveGuests(ctx context.Context) ([]*models.Guest, error) {
	return s.repo.GetActiveGuests(ctx)
}

func (s *GuestService) claimRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusAvailable {
		return nil, ErrRoomNotAvailable
	}
	if err := s.repo.UpdateRoomStatus(ctx, roomID, models.RoomStatusOccupied); err != nil {
		return nil, err
	}
	return room, nil
}

func sameRoom(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *GuestService) publishEvent(eventType string, guest *models.Guest, changedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.GuestEventPayload{
		GuestID:    guest.ID,
		Name:       guest.Name,
		RoomID:     guest.RoomID,
		RoomNumber: guest.RoomNumber,
		CheckOut:   guest.CheckOut,
		CheckedOut: guest.CheckedOut,
		ChangedBy:  changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("guest_id", guest.ID).Msg("publish event error")
	}
}

func (s *GuestService) enqueueSync(ctx context.Context, guest *models.Guest, taskType string) {
	if s.sheetsWorker == nil {
		return
	}

	if err := s.sheetsWorker.EnqueueTask(ctx, taskType, guest.ID, guest); err != nil {
		s.logger.Error().Err(err).Int64("guest_id", guest.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}
