package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound             = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// Profile is owned by exactly one account.
type Profile struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	BirthDate *time.Time
	Gender    *string
	Location  *string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewProfile struct {
	AccountID uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	BirthDate *time.Time
	Gender    *string
	Location  *string
	Bio       *string
}

// Optional distinguishes "leave untouched" (Set false) from "clear"
// (Set true, Value nil) for nullable columns.
type Optional[T any] struct {
	Value *T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: &v, Set: true}
}

// ProfilePatch overwrites only what it carries. Nil required fields are left
// as they are.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     Optional[string]
	BirthDate Optional[time.Time]
	Gender    Optional[string]
	Location  Optional[string]
	Bio       Optional[string]
}

// ProfileStore persists profiles. Every mutation is scoped by the owning
// account id.
type ProfileStore interface {
	// Create fails with ErrProfileAlreadyExists when the account already
	// owns a profile.
	Create(ctx context.Context, in NewProfile, now time.Time) (Profile, error)
	GetByOwner(ctx context.Context, accountID uuid.UUID) (Profile, error)
	GetByID(ctx context.Context, profileID uuid.UUID) (Profile, error)
	UpdateByOwner(ctx context.Context, accountID uuid.UUID, patch ProfilePatch, now time.Time) (Profile, error)
	// DeleteByOwner reports the removed profile id, or false when the
	// account had none.
	DeleteByOwner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, bool, error)
}

var (
	_ ProfileStore = (*Repository)(nil)
	_ ProfileStore = (*MemoryRepository)(nil)
)

// NewStore picks the Postgres store when a pool is available and the
// in-memory store otherwise.
func NewStore(pool *pgxpool.Pool) ProfileStore {
	if pool == nil {
		return NewMemory()
	}
	return New(pool)
}
