package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"profiles_backend/platform/logger"
)

// InMemoryBus runs handlers inline on the publishing goroutine, in
// subscription order. Nothing outlives the request that published.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string][]Handler), log: log}
}

func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	if err := b.PublishSync(ctx, event); err != nil && b.log != nil {
		b.log.Error("event handler failed",
			slog.String("event", event.EventName()),
			slog.String("error", err.Error()),
		)
	}
}

func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := b.dispatch(ctx, h, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) dispatch(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.EventName(), r)
		}
	}()
	return h.Handle(ctx, event)
}
