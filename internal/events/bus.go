package events

import "sync"

// Bus is a typed publish/subscribe channel for one event category.
// Subscribe returns an unsubscribe func the subscriber ties to its own
// lifecycle; there is no manual handler-list bookkeeping to leak.
// Publish runs handlers synchronously and never blocks the tick on channel
// backpressure — handlers that need to do slow work hand off themselves.
type Bus[T any] struct {
	mu   sync.RWMutex
	subs map[uint64]func(T)
	next uint64
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers a handler and returns its unsubscribe func.
// Unsubscribe is idempotent.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to all current subscribers.
func (b *Bus[T]) Publish(ev T) {
	b.mu.RLock()
	handlers := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
