package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("visibility not found")
	ErrAlreadyExists = errors.New("visibility already exists")
)

const (
	ScopeClose  = "close"
	ScopeNormal = "normal"
	ScopeWide   = "wide"
)

// Visibility controls how widely a profile is shown. A profile has at most
// one record.
type Visibility struct {
	ID            uuid.UUID
	ProfileID     uuid.UUID
	IsVisible     bool
	Scope         string
	LastToggledAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type NewVisibility struct {
	ProfileID uuid.UUID
	IsVisible bool
	Scope     string
}

type VisibilityPatch struct {
	IsVisible *bool
	Scope     *string
}

type VisibilityStore interface {
	Get(ctx context.Context, profileID uuid.UUID) (Visibility, error)
	Create(ctx context.Context, in NewVisibility, now time.Time) (Visibility, error)
	// Update refreshes last_toggled_at on every call.
	Update(ctx context.Context, profileID uuid.UUID, patch VisibilityPatch, now time.Time) (Visibility, error)
	Delete(ctx context.Context, profileID uuid.UUID) (bool, error)
}

var (
	_ VisibilityStore = (*Repository)(nil)
	_ VisibilityStore = (*MemoryRepository)(nil)
)

func NewStore(pool *pgxpool.Pool) VisibilityStore {
	if pool == nil {
		return NewMemory()
	}
	return New(pool)
}
