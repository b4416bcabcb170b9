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

const onePrimaryIndex = "idx_photos_one_primary"

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
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

const photoColumns = `id, profile_id, url, file_key, content_type, is_primary, description, uploaded_at, created_at, updated_at`

const listPhotosQuery = `
	SELECT ` + photoColumns + `
	FROM photos
	WHERE profile_id = $1
	ORDER BY is_primary DESC, uploaded_at DESC`

const selectPhotoQuery = `SELECT ` + photoColumns + ` FROM photos WHERE id = $1 AND profile_id = $2`

const demotePrimaryQuery = `
	UPDATE photos SET is_primary = false, updated_at = $3
	WHERE profile_id = $1 AND is_primary AND id <> $2`

const insertPhotoQuery = `
	INSERT INTO photos (id, profile_id, url, file_key, content_type, is_primary, description, uploaded_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $8)
	RETURNING ` + photoColumns

const updatePhotoQuery = `
	UPDATE photos SET
		url = COALESCE($3, url),
		is_primary = COALESCE($4, is_primary),
		description = CASE WHEN $5::boolean THEN $6 ELSE description END,
		updated_at = $7
	WHERE id = $1 AND profile_id = $2
	RETURNING ` + photoColumns

const deletePhotoQuery = `DELETE FROM photos WHERE id = $1 AND profile_id = $2 RETURNING ` + photoColumns

const deletePhotosByProfileQuery = `DELETE FROM photos WHERE profile_id = $1`

func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Photo, error) {
	rows, err := r.pool.Query(ctx, listPhotosQuery, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *Repository) Get(ctx context.Context, profileID, photoID uuid.UUID) (Photo, error) {
	photo, err := scanPhoto(r.pool.QueryRow(ctx, selectPhotoQuery, photoID, profileID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	return photo, err
}

func (r *Repository) Create(ctx context.Context, in NewPhoto, now time.Time) (Photo, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Photo{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.New()
	if in.IsPrimary {
		if _, err := tx.Exec(ctx, demotePrimaryQuery, in.ProfileID, id, now); err != nil {
			return Photo{}, err
		}
	}

	photo, err := scanPhoto(tx.QueryRow(ctx, insertPhotoQuery,
		id, in.ProfileID, in.URL, in.FileKey, in.ContentType, in.IsPrimary, in.Description, now,
	))
	if db.IsUniqueViolation(err, onePrimaryIndex) {
		return Photo{}, ErrPrimaryConflict
	}
	if err != nil {
		return Photo{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Photo{}, err
	}
	return photo, nil
}

func (r *Repository) Update(ctx context.Context, profileID, photoID uuid.UUID, patch PhotoPatch, now time.Time) (Photo, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Photo{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if patch.IsPrimary != nil && *patch.IsPrimary {
		if _, err := tx.Exec(ctx, demotePrimaryQuery, profileID, photoID, now); err != nil {
			return Photo{}, err
		}
	}

	photo, err := scanPhoto(tx.QueryRow(ctx, updatePhotoQuery,
		photoID, profileID, patch.URL, patch.IsPrimary, patch.DescriptionSet, patch.Description, now,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	if db.IsUniqueViolation(err, onePrimaryIndex) {
		return Photo{}, ErrPrimaryConflict
	}
	if err != nil {
		return Photo{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Photo{}, err
	}
	return photo, nil
}

func (r *Repository) Delete(ctx context.Context, profileID, photoID uuid.UUID) (Photo, error) {
	photo, err := scanPhoto(r.pool.QueryRow(ctx, deletePhotoQuery, photoID, profileID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	return photo, err
}

func (r *Repository) DeleteByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, deletePhotosByProfileQuery, profileID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPhoto(row pgx.Row) (Photo, error) {
	var p Photo
	err := row.Scan(
		&p.ID,
		&p.ProfileID,
		&p.URL,
		&p.FileKey,
		&p.ContentType,
		&p.IsPrimary,
		&p.Description,
		&p.UploadedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
