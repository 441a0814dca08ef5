// Package bus provides a process-wide, in-memory publish/subscribe channel
// with named events and synchronous dispatch.
//
// The bus carries no payload: an event means "something changed, re-derive
// your own state". Delivery is at-most-once per publish per subscriber and
// nothing survives a process restart.
package bus

import "sync"

// Handler is invoked synchronously on the publishing goroutine.
type Handler func()

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	event string
	id    uint64
}

// Bus fans named events out to registered handlers.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string]map[uint64]Handler)}
}

// On registers a handler for an event and returns its subscription token.
func (b *Bus) On(event string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.subs[event] == nil {
		b.subs[event] = make(map[uint64]Handler)
	}
	b.subs[event][b.nextID] = fn
	return Subscription{event: event, id: b.nextID}
}

// Off removes a subscription. Removing an already-removed subscription is a
// no-op.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers := b.subs[sub.event]; handlers != nil {
		delete(handlers, sub.id)
		if len(handlers) == 0 {
			delete(b.subs, sub.event)
		}
	}
}

// Emit dispatches the event to every handler registered at the time of the
// call. Handlers run synchronously; a handler registered or removed during
// dispatch takes effect on the next Emit.
func (b *Bus) Emit(event string) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[event]))
	for _, fn := range b.subs[event] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
