package notification

import (
	"context"
	"errors"
	"testing"

	"profiles_backend/internal/events"
	"profiles_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	calls []string
	names []string
	err   error
}

func (s *testSender) SendWelcomeEmail(_ context.Context, toEmail, name string) error {
	s.calls = append(s.calls, toEmail)
	s.names = append(s.names, name)
	return s.err
}

func TestSignupSendsWelcomeEmail(t *testing.T) {
	sender := &testSender{}
	bus := events.NewInMemoryBus(nil)
	New(sender, logger.Discard()).RegisterHandlers(bus)

	name := "Ada"
	err := bus.PublishSync(context.Background(), events.AccountSignedUp{
		BaseEvent: events.NewBaseEvent(),
		AccountID: uuid.New(),
		Email:     "ada@x.com",
		Name:      &name,
		Provider:  "local",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.calls) != 1 || sender.calls[0] != "ada@x.com" || sender.names[0] != "Ada" {
		t.Fatalf("unexpected sends: %v %v", sender.calls, sender.names)
	}
}

func TestSignupSendFailureIsReported(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	bus := events.NewInMemoryBus(nil)
	New(sender, logger.Discard()).RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.AccountSignedUp{
		BaseEvent: events.NewBaseEvent(),
		AccountID: uuid.New(),
		Email:     "ada@x.com",
	})
	if err == nil {
		t.Fatal("expected send failure to surface through PublishSync")
	}
	if sender.names[0] != "" {
		t.Fatalf("nil name should render empty, got %q", sender.names[0])
	}
}

func TestProfileEventsAreOnlyLogged(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.Discard())

	for _, ev := range []events.Event{
		events.AccountLoggedIn{BaseEvent: events.NewBaseEvent(), AccountID: uuid.New(), Provider: "google"},
		events.ProfileCreated{BaseEvent: events.NewBaseEvent(), ProfileID: uuid.New(), AccountID: uuid.New()},
		events.ProfileDeleted{BaseEvent: events.NewBaseEvent(), ProfileID: uuid.New(), AccountID: uuid.New()},
	} {
		if err := m.Handle(context.Background(), ev); err != nil {
			t.Fatalf("%s: %v", ev.EventName(), err)
		}
	}
	if len(sender.calls) != 0 {
		t.Fatalf("no mail expected, got %v", sender.calls)
	}
}

func TestNilSenderFallsBackToNoop(t *testing.T) {
	m := New(nil, logger.Discard())
	err := m.Handle(context.Background(), events.AccountSignedUp{BaseEvent: events.NewBaseEvent(), Email: "a@x.com"})
	if err != nil {
		t.Fatalf("noop sender: %v", err)
	}
}
