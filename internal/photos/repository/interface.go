package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("photo not found")
	// ErrPrimaryConflict means a concurrent write made another photo
	// primary first.
	ErrPrimaryConflict = errors.New("another photo became primary concurrently")
)

type Photo struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	URL         string
	FileKey     *string
	ContentType *string
	IsPrimary   bool
	Description *string
	UploadedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewPhoto struct {
	ProfileID   uuid.UUID
	URL         string
	FileKey     *string
	ContentType *string
	IsPrimary   bool
	Description *string
}

// PhotoPatch overwrites only what it carries. Description is cleared when
// DescriptionSet is true and Description is nil.
type PhotoPatch struct {
	URL            *string
	IsPrimary      *bool
	Description    *string
	DescriptionSet bool
}

// PhotoStore scopes every lookup by profile, so a photo id from another
// profile behaves like a missing one. A profile has at most one primary
// photo; marking one primary demotes the others in the same write.
type PhotoStore interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Photo, error)
	Get(ctx context.Context, profileID, photoID uuid.UUID) (Photo, error)
	Create(ctx context.Context, in NewPhoto, now time.Time) (Photo, error)
	Update(ctx context.Context, profileID, photoID uuid.UUID, patch PhotoPatch, now time.Time) (Photo, error)
	Delete(ctx context.Context, profileID, photoID uuid.UUID) (Photo, error)
	// DeleteByProfile returns the number of rows removed.
	DeleteByProfile(ctx context.Context, profileID uuid.UUID) (int64, error)
}

var (
	_ PhotoStore = (*Repository)(nil)
	_ PhotoStore = (*MemoryRepository)(nil)
)

func NewStore(pool *pgxpool.Pool) PhotoStore {
	if pool == nil {
		return NewMemory()
	}
	return New(pool)
}
