package services

import (
	"slices"
	"sync"
	"time"
)

// SessionExpired is published when an identity endpoint rejects the credential.
type SessionExpired struct {
	Method string
	Path   string
	Status int
	At     time.Time
}

// SessionExpiredHandler receives [SessionExpired] events.
type SessionExpiredHandler func(SessionExpired)

type expiryBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]SessionExpiredHandler
}

func newExpiryBus() *expiryBus {
	return &expiryBus{handlers: make(map[int]SessionExpiredHandler)}
}

func (b *expiryBus) subscribe(fn SessionExpiredHandler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// publish calls every handler synchronously, in subscription order.
func (b *expiryBus) publish(ev SessionExpired) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	handlers := make([]SessionExpiredHandler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
