package notify

import (
	"encoding/json"
	"fmt"

	"guesthouse/internal/domain"
	"guesthouse/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier pushes checkout and pending-payment notices to the
// manager chats. It is a pure event consumer; nothing else depends on it.
type TelegramNotifier struct {
	sender   domain.TelegramSender
	eventBus *events.EventBus
	managers []int64
	logger   zerolog.Logger

	subscriptions []*events.Subscription
}

func NewTelegramNotifier(sender domain.TelegramSender, eventBus *events.EventBus, managers []int64, logger *zerolog.Logger) *TelegramNotifier {
	var l zerolog.Logger
	if logger != nil {
		l = logger.With().Str("component", "telegram_notifier").Logger()
	}
	return &TelegramNotifier{
		sender:   sender,
		eventBus: eventBus,
		managers: managers,
		logger:   l,
	}
}

// Start subscribes to checkout events. Safe to call with a nil sender;
// the notifier then stays dormant.
func (n *TelegramNotifier) Start() {
	if n.sender == nil || n.eventBus == nil || len(n.managers) == 0 {
		n.logger.Info().Msg("telegram notifications disabled")
		return
	}

	n.subscriptions = append(n.subscriptions,
		n.eventBus.Subscribe(events.EventGuestCheckedOut, n.onGuestCheckedOut))
}

// Stop detaches the event handlers.
func (n *TelegramNotifier) Stop() {
	for _, sub := range n.subscriptions {
		sub.Unsubscribe()
	}
	n.subscriptions = nil
}

func (n *TelegramNotifier) onGuestCheckedOut(event *events.Event) error {
	var payload events.GuestEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("decode checkout event")
		return err
	}

	room := payload.RoomNumber
	if room == "" {
		room = "-"
	}
	text := fmt.Sprintf("Guest checked out\n\nName: %s\nRoom: %s\nBy: %s",
		payload.Name, room, payload.ChangedBy)

	n.broadcast(text)
	return nil
}

func (n *TelegramNotifier) broadcast(text string) {
	for _, chatID := range n.managers {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send notification")
		}
	}
}
