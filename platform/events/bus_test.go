package events

import (
	"context"
	"errors"
	"testing"
)

type pinged struct{ BaseEvent }

func (pinged) EventName() string { return "test.pinged" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var order []int
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v", order)
	}
}

func TestPublishSyncCollectsFailuresAndPanics(t *testing.T) {
	bus := NewInMemoryBus(nil)
	boom := errors.New("boom")
	reached := false
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { panic("bad handler") }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		reached = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
	if !reached {
		t.Fatal("a failing handler must not stop later handlers")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	NewInMemoryBus(nil).Publish(context.Background(), pinged{NewBaseEvent()})
}
