package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"profiles_backend/internal/auth/google"
	"profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/events"
	"profiles_backend/platform/apperr"
	platformevents "profiles_backend/platform/events"
	"profiles_backend/platform/logger"

	"github.com/google/uuid"
)

type jwtConfig struct{}

func (jwtConfig) GetJWTSecret() string             { return "service-test-secret" }
func (jwtConfig) GetJWTAlgorithm() string          { return "HS256" }
func (jwtConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type profileLookup map[uuid.UUID]uuid.UUID

func (p profileLookup) ProfileIDByAccount(_ context.Context, accountID uuid.UUID) (*uuid.UUID, error) {
	if id, ok := p[accountID]; ok {
		return &id, nil
	}
	return nil, nil
}

type fakeGoogle struct {
	identity google.Identity
	err      error
}

func (f *fakeGoogle) LoginURL(state string) string { return "https://accounts.example/auth?state=" + state }

func (f *fakeGoogle) Exchange(context.Context, string) (google.Identity, error) {
	return f.identity, f.err
}

func (f *fakeGoogle) VerifyIDToken(context.Context, string) (google.Identity, error) {
	return f.identity, f.err
}

type recordingBus struct {
	*platformevents.InMemoryBus
	names []string
}

func newRecordingBus() *recordingBus {
	b := &recordingBus{InMemoryBus: platformevents.NewInMemoryBus(nil)}
	return b
}

func (b *recordingBus) Publish(ctx context.Context, e events.Event) {
	b.names = append(b.names, e.EventName())
	b.InMemoryBus.Publish(ctx, e)
}

type fixture struct {
	svc    *Service
	repo   *repository.MemoryRepository
	tokens *token.Service
	bus    *recordingBus
	google *fakeGoogle
}

func newFixture() fixture {
	repo := repository.NewMemory()
	tokens := token.NewService(jwtConfig{})
	bus := newRecordingBus()
	g := &fakeGoogle{}
	svc := New(repo, tokens, profileLookup{}, bus, logger.Discard()).
		WithGoogle(g, google.CookieStateStore{})
	return fixture{svc: svc, repo: repo, tokens: tokens, bus: bus, google: g}
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.SignUp(ctx, SignUpInput{Email: " A@X.com ", Password: "longenough1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.Account.Email != "a@x.com" || created.Account.Provider != token.ProviderLocal {
		t.Fatalf("account = %+v", created.Account)
	}

	session, err := f.svc.SignIn(ctx, "a@x.com", "longenough1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.Account.ID != created.Account.ID || session.Account.LastLoginAt == nil {
		t.Fatalf("session account = %+v", session.Account)
	}

	principal, err := f.tokens.Verify(session.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.SubjectID != created.Account.ID.String() || principal.Provider != token.ProviderLocal {
		t.Fatalf("principal = %+v", principal)
	}
	if len(f.bus.names) == 0 || f.bus.names[0] != "auth.account.signed_up" {
		t.Fatalf("events = %v", f.bus.names)
	}
}

func TestSignUpWithFederatedEmailFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.google.identity = google.Identity{Subject: "g-1", Email: "g@x.com", EmailVerified: true}

	if _, err := f.svc.GoogleTokenLogin(ctx, "id-token"); err != nil {
		t.Fatalf("GoogleTokenLogin: %v", err)
	}

	_, err := f.svc.SignUp(ctx, SignUpInput{Email: "g@x.com", Password: "longenough1"})
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("err = %v, want ErrAccountExists", err)
	}
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("kind = %s", apperr.GetKind(err))
	}
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, _ = f.svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "longenough1"})
	f.google.identity = google.Identity{Subject: "g-1", Email: "g@x.com", EmailVerified: true}
	_, _ = f.svc.GoogleTokenLogin(ctx, "id-token")

	attempts := []struct{ email, password string }{
		{"a@x.com", "wrong-password"},
		{"nobody@x.com", "longenough1"},
		{"g@x.com", "longenough1"},
	}

	var messages []string
	for _, a := range attempts {
		_, err := f.svc.SignIn(ctx, a.email, a.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v, want ErrInvalidCredentials", a.email, err)
		}
		appErr, _ := apperr.As(err)
		messages = append(messages, fmt.Sprintf("%d %s", appErr.HTTPStatus(), appErr.Message))
	}
	for _, m := range messages[1:] {
		if m != messages[0] {
			t.Fatalf("failure shapes differ: %v", messages)
		}
	}
}

func TestGoogleLoginTwiceKeepsAccountID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return clock })
	f.google.identity = google.Identity{Subject: "g-1", Email: "g@x.com", EmailVerified: true, Name: "Grace"}

	first, err := f.svc.GoogleTokenLogin(ctx, "t1")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	clock = clock.Add(time.Hour)
	f.google.identity.Name = ""
	second, err := f.svc.GoogleTokenLogin(ctx, "t2")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.Account.ID != second.Account.ID {
		t.Fatal("account id changed on repeat federated login")
	}
	if !second.Account.UpdatedAt.After(first.Account.UpdatedAt) || !second.Account.LastLoginAt.After(*first.Account.LastLoginAt) {
		t.Fatalf("timestamps not refreshed: %+v", second.Account)
	}
	if second.Account.Name == nil || *second.Account.Name != "Grace" {
		t.Fatalf("name lost: %v", second.Account.Name)
	}

	signups := 0
	for _, n := range f.bus.names {
		if n == "auth.account.signed_up" {
			signups++
		}
	}
	if signups != 1 {
		t.Fatalf("signed_up published %d times, want 1", signups)
	}
}

func TestGoogleFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.google.err = fmt.Errorf("%w: invalid_grant: Bad Request", google.ErrUpstreamAuth)

	_, err := f.svc.GoogleTokenLogin(ctx, "bad")
	if !errors.Is(err, google.ErrUpstreamAuth) {
		t.Fatalf("err = %v", err)
	}
	appErr, _ := apperr.As(err)
	if appErr.Message != "google authentication failed: invalid_grant: Bad Request" {
		t.Fatalf("diagnostic not propagated: %q", appErr.Message)
	}
	if _, err := f.repo.GetLocalAccountByEmail(ctx, "g@x.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("no account may be written on upstream failure")
	}
}

func TestCompleteGoogleLoginChecksState(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.google.identity = google.Identity{Subject: "g-1", Email: "g@x.com", EmailVerified: true}

	_, state, err := f.svc.BeginGoogleLogin(ctx)
	if err != nil {
		t.Fatalf("BeginGoogleLogin: %v", err)
	}

	if _, err := f.svc.CompleteGoogleLogin(ctx, "code", state, "other"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("mismatched state err = %v", err)
	}
	if _, err := f.svc.CompleteGoogleLogin(ctx, "code", state, state); err != nil {
		t.Fatalf("CompleteGoogleLogin: %v", err)
	}
}

func TestGoogleDisabled(t *testing.T) {
	svc := New(repository.NewMemory(), token.NewService(jwtConfig{}), nil, newRecordingBus(), logger.Discard())
	_, _, err := svc.BeginGoogleLogin(context.Background())
	if !errors.Is(err, ErrFederationDisabled) || apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionIncludesProfileID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, _ := f.svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "longenough1"})

	profileID := uuid.New()
	f.svc.profiles = profileLookup{created.Account.ID: profileID}

	session, err := f.svc.SignIn(ctx, "a@x.com", "longenough1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.ProfileID == nil || *session.ProfileID != profileID {
		t.Fatalf("profile id = %v", session.ProfileID)
	}
}

func TestMeUnknownAccount(t *testing.T) {
	_, err := newFixture().svc.Me(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("err = %v", err)
	}
}
