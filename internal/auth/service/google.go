package service

import (
	"context"
	"errors"
	"strings"

	"profiles_backend/internal/auth/google"
	"profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/events"
	"profiles_backend/platform/apperr"
)

// GoogleEnabled reports whether federated login is wired.
func (s *Service) GoogleEnabled() bool {
	return s.google != nil
}

// BeginGoogleLogin issues a fresh state and returns the consent URL.
func (s *Service) BeginGoogleLogin(ctx context.Context) (loginURL, state string, err error) {
	if s.google == nil {
		return "", "", apperr.Wrap(apperr.KindUnavailable, msgFederationDisabled, ErrFederationDisabled)
	}

	state, err = token.GenerateRandomToken(32)
	if err != nil {
		return "", "", err
	}
	if err := s.states.Issue(ctx, state); err != nil {
		return "", "", err
	}
	return s.google.LoginURL(state), state, nil
}

// CompleteGoogleLogin handles the OAuth callback. expectedState is the
// value from the state cookie set by BeginGoogleLogin.
func (s *Service) CompleteGoogleLogin(ctx context.Context, code, state, expectedState string) (Session, error) {
	if s.google == nil {
		return Session{}, apperr.Wrap(apperr.KindUnavailable, msgFederationDisabled, ErrFederationDisabled)
	}

	invalidState := apperr.Wrap(apperr.KindUnauthorized, msgInvalidState, ErrInvalidState)
	if state == "" || state != expectedState {
		return Session{}, invalidState
	}
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, invalidState
	}
	if strings.TrimSpace(code) == "" {
		return Session{}, apperr.BadRequest("authorization code is required")
	}

	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		return Session{}, s.upstreamFailure(err)
	}
	return s.federatedSession(ctx, identity)
}

// GoogleTokenLogin accepts an ID token obtained by the client itself.
func (s *Service) GoogleTokenLogin(ctx context.Context, rawIDToken string) (Session, error) {
	if s.google == nil {
		return Session{}, apperr.Wrap(apperr.KindUnavailable, msgFederationDisabled, ErrFederationDisabled)
	}

	identity, err := s.google.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return Session{}, s.upstreamFailure(err)
	}
	return s.federatedSession(ctx, identity)
}

// federatedSession upserts the account by email. Local state is untouched
// when the provider call failed, since that returns before reaching here.
func (s *Service) federatedSession(ctx context.Context, identity google.Identity) (Session, error) {
	now := s.timestamp()
	account, err := s.repo.UpsertFederatedAccount(ctx, repository.FederatedLogin{
		Email:   NormalizeEmail(identity.Email),
		Name:    optional(identity.Name),
		Subject: identity.Subject,
		Picture: optional(identity.Picture),
	}, now)
	if errors.Is(err, repository.ErrAccountExists) {
		s.log.AuthEvent("google_login", identity.Email, false, "provider subject bound to another email")
		return Session{}, apperr.Wrap(apperr.KindConflict, msgAccountExists, err)
	}
	if err != nil {
		s.log.DatabaseError("auth.UpsertFederatedAccount", err)
		return Session{}, err
	}

	s.log.AuthEvent("google_login", account.Email, true, "")
	// created_at only equals this call's timestamp when the row was inserted.
	if account.CreatedAt.Equal(now) {
		s.eventBus.Publish(ctx, events.AccountSignedUp{
			BaseEvent: events.NewBaseEvent(),
			AccountID: account.ID,
			Email:     account.Email,
			Name:      account.Name,
			Provider:  account.Provider,
		})
	}
	s.eventBus.Publish(ctx, events.AccountLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		AccountID: account.ID,
		Provider:  account.Provider,
	})

	return s.session(ctx, account)
}

func (s *Service) upstreamFailure(err error) error {
	s.log.AuthEvent("google_login", "", false, err.Error())
	if errors.Is(err, google.ErrUpstreamAuth) {
		return apperr.Wrap(apperr.KindUnauthorized, err.Error(), err)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
