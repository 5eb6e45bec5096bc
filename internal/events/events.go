package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types are keyed by entity collection so a subscriber can watch a
// single table the way the old realtime channels did.
const (
	EventRoomsChanged    = "rooms_changed"
	EventGuestsChanged   = "guests_changed"
	EventExpensesChanged = "expenses_changed"
	EventGuestCheckedOut = "guest_checked_out"
)

// GuestEventPayload describes the minimal booking snapshot for event consumers.
type GuestEventPayload struct {
	GuestID    int64      `json:"guest_id"`
	Name       string     `json:"name"`
	RoomID     *int64     `json:"room_id,omitempty"`
	RoomNumber string     `json:"room_number,omitempty"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	CheckedOut bool       `json:"checked_out"`
	ChangedBy  string     `json:"changed_by,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// Subscription is a registered handler; Unsubscribe detaches it.
// Components tie Unsubscribe to their own shutdown so handlers never
// outlive their owner.
type Subscription struct {
	bus       *EventBus
	eventType string
	id        int64
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.unsubscribe(s.eventType, s.id)
	s.bus = nil
}

type subscriber struct {
	id      int64
	handler EventHandler
}

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]subscriber
	nextID      int64
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]subscriber)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{bus: b, eventType: eventType, id: id}
}

func (b *EventBus) unsubscribe(eventType string, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.subscribers[event.Type]))
	for _, s := range b.subscribers[event.Type] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
