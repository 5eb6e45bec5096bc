package notify

import (
	"testing"

	"guesthouse/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestNotifier_SendsCheckoutToAllManagers(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewEventBus()
	logger := zerolog.Nop()

	n := NewTelegramNotifier(sender, bus, []int64{100, 200}, &logger)
	n.Start()
	defer n.Stop()

	roomID := int64(1)
	require.NoError(t, bus.PublishJSON(events.EventGuestCheckedOut, events.GuestEventPayload{
		GuestID:    5,
		Name:       "Ravi Kumar",
		RoomID:     &roomID,
		RoomNumber: "101",
		CheckedOut: true,
		ChangedBy:  "reconciler",
	}))

	require.Len(t, sender.sent, 2)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Contains(t, msg.Text, "Ravi Kumar")
	assert.Contains(t, msg.Text, "101")
	assert.Contains(t, msg.Text, "reconciler")
}

func TestNotifier_DisabledWithoutManagers(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewEventBus()
	logger := zerolog.Nop()

	n := NewTelegramNotifier(sender, bus, nil, &logger)
	n.Start()
	defer n.Stop()

	require.NoError(t, bus.PublishJSON(events.EventGuestCheckedOut, events.GuestEventPayload{GuestID: 1, Name: "x"}))
	assert.Empty(t, sender.sent)
}

func TestNotifier_StopDetaches(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewEventBus()
	logger := zerolog.Nop()

	n := NewTelegramNotifier(sender, bus, []int64{100}, &logger)
	n.Start()
	n.Stop()

	require.NoError(t, bus.PublishJSON(events.EventGuestCheckedOut, events.GuestEventPayload{GuestID: 1, Name: "x"}))
	assert.Empty(t, sender.sent)
}
