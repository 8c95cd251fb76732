// Package realtime provides the subscribe/callback abstraction stores use to
// announce changes, plus a relay that feeds postgres NOTIFY payloads into it.
package realtime

import "sync"

// Unsubscribe removes a subscription. Calling it more than once is harmless.
type Unsubscribe func()

// Subscribable is the capability consumers depend on.
type Subscribable[E any] interface {
	Subscribe(filter func(E) bool, handler func(E)) Unsubscribe
}

type subscription[E any] struct {
	id      uint64
	filter  func(E) bool
	handler func(E)
}

// Hub delivers published events synchronously, in subscription order, to every
// handler whose filter accepts the event. A nil filter accepts everything.
type Hub[E any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[E]
}

func NewHub[E any]() *Hub[E] {
	return &Hub[E]{}
}

func (h *Hub[E]) Subscribe(filter func(E) bool, handler func(E)) Unsubscribe {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription[E]{id: id, filter: filter, handler: handler})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub[E]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish runs handlers outside the hub lock so they may subscribe or
// unsubscribe while being notified.
func (h *Hub[E]) Publish(e E) {
	h.mu.RLock()
	subs := make([]subscription[E], len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		if s.filter == nil || s.filter(e) {
			s.handler(e)
		}
	}
}

// Len reports the number of live subscriptions.
func (h *Hub[E]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
