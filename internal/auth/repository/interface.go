package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrAccountExists = errors.New("account already exists")
)

// Account is a stored identity, local or federated.
type Account struct {
	ID              uuid.UUID
	Email           string
	Name            *string
	Provider        string
	ProviderSubject *string
	Picture         *string
	// PasswordHash is only ever set for local accounts.
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

type NewLocalAccount struct {
	Email        string
	Name         *string
	PasswordHash string
}

// FederatedLogin carries the claims trusted from the identity provider.
type FederatedLogin struct {
	Email   string
	Name    *string
	Subject string
	Picture *string
}

// AccountStore persists accounts. Emails are expected already normalised.
type AccountStore interface {
	// CreateLocalAccount fails with ErrAccountExists when the email is taken
	// by an account of any provider.
	CreateLocalAccount(ctx context.Context, in NewLocalAccount, now time.Time) (Account, error)
	// GetLocalAccountByEmail only matches accounts whose provider is local.
	GetLocalAccountByEmail(ctx context.Context, email string) (Account, error)
	RecordLogin(ctx context.Context, accountID uuid.UUID, now time.Time) (Account, error)
	// UpsertFederatedAccount creates or claims the account for in.Email.
	// Blank names and pictures never overwrite stored ones.
	UpsertFederatedAccount(ctx context.Context, in FederatedLogin, now time.Time) (Account, error)
	GetAccountByID(ctx context.Context, accountID uuid.UUID) (Account, error)
}

var (
	_ AccountStore = (*Repository)(nil)
	_ AccountStore = (*MemoryRepository)(nil)
)

// NewStore picks the Postgres store when a pool is available and the
// in-memory store otherwise.
func NewStore(pool *pgxpool.Pool) AccountStore {
	if pool == nil {
		return NewMemory()
	}
	return New(pool)
}
