package events

import (
	"sync"
	"time"
)

// Event types published on the bus.
const (
	// TypeStateChanged is published on every workflow state transition.
	TypeStateChanged = "state.changed"
	// TypeCoursesChanged tells course-list readers to refetch.
	TypeCoursesChanged = "courses.changed"
)

// Event is a notification about a workflow or the persisted course list.
type Event struct {
	Type       string    `json:"type"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	State      string    `json:"state,omitempty"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}

// Bus delivers events to every subscriber. A subscriber whose buffer is full
// misses the event; Publish never blocks.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. Calling cancel unregisters it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish stamps e with the current time if unset and fans it out.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
