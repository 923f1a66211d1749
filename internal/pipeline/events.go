package pipeline

import (
	"strings"
	"sync"
	"time"
)

const completedRunRetention = 30 * time.Second

// EventType classifies a progress event.
type EventType string

const (
	EventLog      EventType = "log"
	EventStep     EventType = "step"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
)

// Event is one progress update for a run, streamed to watchers.
type Event struct {
	Type    EventType `json:"type"`
	RunID   string    `json:"runId"`
	Step    Step      `json:"step,omitempty"`
	Status  StepState `json:"status,omitempty"`
	Message string    `json:"message,omitempty"`
}

// EventBroker manages per-run event channels.
type EventBroker struct {
	mu     sync.RWMutex
	events map[string]chan Event
}

func NewEventBroker() *EventBroker {
	return &EventBroker{events: make(map[string]chan Event)}
}

// Allocate creates and registers a new event channel for a run.
func (b *EventBroker) Allocate(runID string, size int) chan Event {
	if size <= 0 {
		size = 1
	}
	ch := make(chan Event, size)
	b.mu.Lock()
	b.events[strings.TrimSpace(runID)] = ch
	b.mu.Unlock()
	return ch
}

// Get returns the event channel for a run.
func (b *EventBroker) Get(runID string) (chan Event, bool) {
	b.mu.RLock()
	ch, ok := b.events[strings.TrimSpace(runID)]
	b.mu.RUnlock()
	return ch, ok
}

// ScheduleCleanup removes a run's event channel after a retention period
// so late watchers can still read the tail of a finished run.
func (b *EventBroker) ScheduleCleanup(runID string) {
	time.AfterFunc(completedRunRetention, func() {
		b.mu.Lock()
		delete(b.events, strings.TrimSpace(runID))
		b.mu.Unlock()
	})
}

// publish drops the event when the channel is full rather than blocking
// the pipeline on a slow watcher.
func (b *EventBroker) publish(runID string, ev Event) {
	ch, ok := b.Get(runID)
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
