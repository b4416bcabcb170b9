package repository

import (
	"context"
	"errors"
	"time"

	"profiles_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const visibilityProfileConstraint = "visibility_profile_id_key"

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Pool = (*pgxpool.Pool)(nil)

type Repository struct {
	pool Pool
}

func New(pool Pool) *Repository {
	return &Repository{pool: pool}
}

const visibilityColumns = `id, profile_id, is_visible, scope, last_toggled_at, created_at, updated_at`

const selectVisibilityQuery = `SELECT ` + visibilityColumns + ` FROM visibility WHERE profile_id = $1`

const insertVisibilityQuery = `
	INSERT INTO visibility (id, profile_id, is_visible, scope, last_toggled_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5, $5)
	RETURNING ` + visibilityColumns

const updateVisibilityQuery = `
	UPDATE visibility SET
		is_visible = COALESCE($2, is_visible),
		scope = COALESCE($3, scope),
		last_toggled_at = $4,
		updated_at = $4
	WHERE profile_id = $1
	RETURNING ` + visibilityColumns

const deleteVisibilityQuery = `DELETE FROM visibility WHERE profile_id = $1`

func (r *Repository) Get(ctx context.Context, profileID uuid.UUID) (Visibility, error) {
	v, err := scanVisibility(r.pool.QueryRow(ctx, selectVisibilityQuery, profileID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Visibility{}, ErrNotFound
	}
	return v, err
}

// Create relies on the unique profile_id constraint.
func (r *Repository) Create(ctx context.Context, in NewVisibility, now time.Time) (Visibility, error) {
	v, err := scanVisibility(r.pool.QueryRow(ctx, insertVisibilityQuery,
		uuid.New(), in.ProfileID, in.IsVisible, in.Scope, now,
	))
	if db.IsUniqueViolation(err, visibilityProfileConstraint) {
		return Visibility{}, ErrAlreadyExists
	}
	return v, err
}

func (r *Repository) Update(ctx context.Context, profileID uuid.UUID, patch VisibilityPatch, now time.Time) (Visibility, error) {
	v, err := scanVisibility(r.pool.QueryRow(ctx, updateVisibilityQuery, profileID, patch.IsVisible, patch.Scope, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return Visibility{}, ErrNotFound
	}
	return v, err
}

func (r *Repository) Delete(ctx context.Context, profileID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteVisibilityQuery, profileID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanVisibility(row pgx.Row) (Visibility, error) {
	var v Visibility
	err := row.Scan(&v.ID, &v.ProfileID, &v.IsVisible, &v.Scope, &v.LastToggledAt, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
