// Package events is the in-process event bus modules use to react to each
// other's state changes without importing one another.
package events

import (
	"context"
	"time"
)

type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by every domain event.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus dispatches events to subscribers registered by event name.
type Bus interface {
	// Publish delivers the event and only logs handler failures.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers the event and returns every handler failure.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
