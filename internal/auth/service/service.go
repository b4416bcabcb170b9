// Package service holds the account use cases: local signup and login,
// federated login through Google, and session issuance.
package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"profiles_backend/internal/auth/google"
	"profiles_backend/internal/auth/password"
	"profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/events"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/sanitize"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is deliberately the same for an unknown email,
	// a federated-only account and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = repository.ErrAccountExists
	ErrFederationDisabled = errors.New("google login is not configured")
	ErrInvalidState       = errors.New("oauth state mismatch")
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgAccountExists      = "User already exists."
	msgAccountNotFound    = "account not found"
	msgFederationDisabled = "Google login is not configured."
	msgInvalidState       = "Invalid or expired login state."
)

// ProfileLookup resolves the profile owned by an account, if any.
type ProfileLookup interface {
	ProfileIDByAccount(ctx context.Context, accountID uuid.UUID) (*uuid.UUID, error)
}

// FederatedProvider is satisfied by *google.Provider.
type FederatedProvider interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (google.Identity, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (google.Identity, error)
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string
	ExpiresIn time.Duration
	Account   repository.Account
	ProfileID *uuid.UUID
}

type SignUpInput struct {
	Email    string
	Password string
	Name     *string
}

type Service struct {
	repo     repository.AccountStore
	tokens   *token.Service
	profiles ProfileLookup
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time

	google FederatedProvider
	states google.StateStore
}

func New(repo repository.AccountStore, tokens *token.Service, profiles ProfileLookup, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		profiles: profiles,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

// WithGoogle enables federated login.
func (s *Service) WithGoogle(provider FederatedProvider, states google.StateStore) *Service {
	s.google = provider
	s.states = states
	return s
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// timestamp is truncated to what Postgres stores so values written and read
// back compare equal.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, apperr.Validation("a valid email address is required")
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindBadRequest, "password cannot be used", err)
	}

	account, err := s.repo.CreateLocalAccount(ctx, repository.NewLocalAccount{
		Email:        email,
		Name:         sanitize.TrimPtr(in.Name),
		PasswordHash: hash,
	}, s.timestamp())
	if errors.Is(err, repository.ErrAccountExists) {
		s.log.AuthEvent("signup", email, false, "email already registered")
		return Session{}, apperr.Wrap(apperr.KindConflict, msgAccountExists, ErrAccountExists)
	}
	if err != nil {
		s.log.DatabaseError("auth.CreateLocalAccount", err)
		return Session{}, err
	}

	s.log.AuthEvent("signup", email, true, "")
	s.eventBus.Publish(ctx, events.AccountSignedUp{
		BaseEvent: events.NewBaseEvent(),
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Provider:  account.Provider,
	})

	return s.session(ctx, account)
}

// SignIn authenticates a local account.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Session, error) {
	account, err := s.VerifyLocalCredentials(ctx, email, plainPassword)
	if err != nil {
		return Session{}, err
	}
	return s.session(ctx, account)
}

// VerifyLocalCredentials returns the account for a correct email and
// password pair and refreshes its last login.
func (s *Service) VerifyLocalCredentials(ctx context.Context, email, plainPassword string) (repository.Account, error) {
	email = NormalizeEmail(email)
	invalid := apperr.Wrap(apperr.KindUnauthorized, msgInvalidCredentials, ErrInvalidCredentials)

	account, err := s.repo.GetLocalAccountByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		burnCompare(plainPassword)
		s.log.AuthEvent("login", email, false, "no local account")
		return repository.Account{}, invalid
	}
	if err != nil {
		s.log.DatabaseError("auth.GetLocalAccountByEmail", err)
		return repository.Account{}, err
	}
	if account.PasswordHash == nil || *account.PasswordHash == "" {
		burnCompare(plainPassword)
		s.log.AuthEvent("login", email, false, "account has no password")
		return repository.Account{}, invalid
	}

	ok, err := password.Verify(plainPassword, *account.PasswordHash)
	if err != nil {
		s.log.Error("stored password hash is malformed", "account_id", account.ID.String())
		return repository.Account{}, apperr.Wrap(apperr.KindInternal, "internal server error", err)
	}
	if !ok {
		s.log.AuthEvent("login", email, false, "password mismatch")
		return repository.Account{}, invalid
	}

	account, err = s.repo.RecordLogin(ctx, account.ID, s.timestamp())
	if err != nil {
		s.log.DatabaseError("auth.RecordLogin", err)
		return repository.Account{}, err
	}

	s.log.AuthEvent("login", email, true, "")
	s.eventBus.Publish(ctx, events.AccountLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		AccountID: account.ID,
		Provider:  account.Provider,
	})
	return account, nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, accountID uuid.UUID) (repository.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Account{}, apperr.Wrap(apperr.KindNotFound, msgAccountNotFound, err)
	}
	return account, err
}

func (s *Service) session(ctx context.Context, account repository.Account) (Session, error) {
	raw, err := s.tokens.Issue(token.IssueInput{
		SubjectID: account.ID.String(),
		Email:     account.Email,
		Name:      account.Name,
		Provider:  account.Provider,
	})
	if err != nil {
		return Session{}, token.AppError(err)
	}

	var profileID *uuid.UUID
	if s.profiles != nil {
		profileID, err = s.profiles.ProfileIDByAccount(ctx, account.ID)
		if err != nil {
			return Session{}, err
		}
	}

	return Session{
		Token:     raw,
		ExpiresIn: s.tokens.TTL(),
		Account:   account,
		ProfileID: profileID,
	}, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnCompare spends the same bcrypt work as a real check so response time
// does not reveal whether an email is registered.
func burnCompare(plain string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = password.Hash("timing-equaliser")
	})
	if dummyHash != "" {
		_, _ = password.Verify(plain, dummyHash)
	}
}
