package events

import (
	"encoding/json"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventGuestsChanged, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := GuestEventPayload{GuestID: 7, Name: "Asha"}
	err := bus.PublishJSON(EventGuestsChanged, payload)
	if err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventGuestsChanged {
		t.Errorf("expected type %s, got %s", EventGuestsChanged, received.Type)
	}

	var decoded GuestEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.GuestID != 7 || decoded.Name != "Asha" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: "event"})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	var kept, dropped int

	keep := bus.Subscribe("event", func(_ *Event) error { kept++; return nil })
	drop := bus.Subscribe("event", func(_ *Event) error { dropped++; return nil })

	drop.Unsubscribe()
	bus.Publish(&Event{Type: "event"})

	if kept != 1 {
		t.Errorf("remaining handler should fire, got %d", kept)
	}
	if dropped != 0 {
		t.Errorf("unsubscribed handler must not fire, got %d", dropped)
	}

	// Double unsubscribe is a no-op.
	drop.Unsubscribe()
	keep.Unsubscribe()
	bus.Publish(&Event{Type: "event"})

	if kept != 1 {
		t.Errorf("handler fired after unsubscribe, got %d", kept)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()

	// Must not panic or block.
	bus.Publish(&Event{Type: "nobody_listens"})
	if err := bus.PublishJSON("nobody_listens", map[string]int{"a": 1}); err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}
}
