// Package eventbus publishes the events a unit of work drains on completion.
// Local events go to in-process handlers; distributed events go to the
// durable outbox or straight to the message broker.
package eventbus

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Handler handles one local event. It runs with the completing unit bound
// in ctx, so writes it makes and events it raises join that unit.
type Handler func(ctx context.Context, record *uow.EventRecord) error

// LocalBus dispatches local events to handlers subscribed by event type.
// Handlers run sequentially in subscription order.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewLocalBus returns a bus with no subscriptions.
func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[string][]Handler)}
}

// Subscribe registers h for eventType.
func (b *LocalBus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish delivers records in the given order and stops at the first
// handler error.
func (b *LocalBus) Publish(ctx context.Context, records []*uow.EventRecord) error {
	for _, r := range records {
		b.mu.RLock()
		handlers := slices.Clone(b.handlers[r.EventType])
		b.mu.RUnlock()

		for _, h := range handlers {
			if err := h(ctx, r); err != nil {
				return fmt.Errorf("handling %s: %w", r.EventType, err)
			}
		}
	}
	return nil
}
