// Package notification reacts to account and profile events. Domain modules
// publish events and never talk to the mail sender directly.
package notification

import (
	"context"

	"profiles_backend/internal/email"
	"profiles_backend/internal/events"
	"profiles_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// New builds the module. A nil sender falls back to email.NoopSender.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, log: log}
}

func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to the events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.AccountSignedUp{}.EventName(), m)
	bus.Subscribe(events.AccountLoggedIn{}.EventName(), m)
	bus.Subscribe(events.ProfileCreated{}.EventName(), m)
	bus.Subscribe(events.ProfileDeleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AccountSignedUp:
		return m.handleAccountSignedUp(ctx, e)
	case events.AccountLoggedIn:
		m.log.Info("account logged in", "accountId", e.AccountID, "provider", e.Provider)
		return nil
	case events.ProfileCreated:
		m.log.Info("profile created", "profileId", e.ProfileID, "accountId", e.AccountID)
		return nil
	case events.ProfileDeleted:
		m.log.Info("profile deleted", "profileId", e.ProfileID, "accountId", e.AccountID)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleAccountSignedUp(ctx context.Context, e events.AccountSignedUp) error {
	if err := m.sender.SendWelcomeEmail(ctx, e.Email, derefStr(e.Name)); err != nil {
		m.log.Error("failed to send welcome email",
			"accountId", e.AccountID,
			"email", e.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("welcome email sent", "accountId", e.AccountID, "email", e.Email)
	return nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
