package pipeline

import (
	"testing"

	"adforge/internal/tester"
)

func TestBrokerAllocateAndGet(t *testing.T) {
	b := NewEventBroker()

	ch := b.Allocate("run-1", 4)
	got, ok := b.Get("run-1")
	tester.True(t, ok)
	tester.True(t, ch == got)

	_, ok = b.Get("run-2")
	tester.False(t, ok)

	// Lookup trims whitespace the same way registration does.
	_, ok = b.Get("  run-1  ")
	tester.True(t, ok)
}

func TestBrokerPublishDropsWhenFull(t *testing.T) {
	b := NewEventBroker()
	b.Allocate("run-1", 1)

	b.publish("run-1", Event{Type: EventLog, Message: "first"})
	b.publish("run-1", Event{Type: EventLog, Message: "dropped"})

	ch, _ := b.Get("run-1")
	ev := <-ch
	tester.Eq(t, ev.Message, "first")
	select {
	case <-ch:
		t.Fatalf("second event should have been dropped")
	default:
	}
}

func TestBrokerPublishUnknownRunIsNoop(t *testing.T) {
	b := NewEventBroker()
	b.publish("ghost", Event{Type: EventLog})
}
