package events

import (
	"sync"
)

// Event names owned by this core.
const (
	ShiftsCreated  = "shifts:created"
	ShiftsUpdated  = "shifts:updated"
	ShiftsDeleted  = "shifts:deleted"
	PayrollCreated = "payroll:created"
	PayrollUpdated = "payroll:updated"
	PayrollDeleted = "payroll:deleted"
)

// Handler receives a published event and its payload.
type Handler func(event string, payload interface{})

// Bus is an in-process publish/subscribe bus keyed by event name.
// It is built by the caller and injected, never shared as a package
// singleton, so tests can run against isolated instances.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[int]Handler),
	}
}

// Subscribe registers handler for each of the given event names and
// returns an unsubscribe function. Unsubscribing is idempotent and must
// be called on teardown to keep subscriptions symmetric.
func (b *Bus) Subscribe(eventNames []string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	for _, name := range eventNames {
		if b.subs[name] == nil {
			b.subs[name] = make(map[int]Handler)
		}
		b.subs[name][id] = handler
	}

	names := make([]string, len(eventNames))
	copy(names, eventNames)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, name := range names {
			delete(b.subs[name], id)
			if len(b.subs[name]) == 0 {
				delete(b.subs, name)
			}
		}
	}
}

// Emit delivers payload to every handler subscribed to event.
// Handlers run synchronously on the caller's goroutine; the subscriber
// snapshot is taken under the lock so a handler may unsubscribe itself.
func (b *Bus) Emit(event string, payload interface{}) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event]))
	for _, h := range b.subs[event] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event, payload)
	}
}

// SubscriberCount returns the number of handlers registered for event.
func (b *Bus) SubscriberCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[event])
}
