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

const profileOwnerConstraint = "profiles_account_id_key"

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
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

const profileColumns = `id, account_id, first_name, last_name, email, phone, birth_date, gender, location, bio, created_at, updated_at`

const ownerHasProfileQuery = `SELECT EXISTS (SELECT 1 FROM profiles WHERE account_id = $1)`

const insertProfileQuery = `
	INSERT INTO profiles (id, account_id, first_name, last_name, email, phone, birth_date, gender, location, bio, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	RETURNING ` + profileColumns

const selectProfileByOwnerQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE account_id = $1`

const selectProfileByIDQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

const updateProfileByOwnerQuery = `
	UPDATE profiles SET
		first_name = COALESCE($2, first_name),
		last_name = COALESCE($3, last_name),
		email = COALESCE($4, email),
		phone = CASE WHEN $5::boolean THEN $6 ELSE phone END,
		birth_date = CASE WHEN $7::boolean THEN $8::date ELSE birth_date END,
		gender = CASE WHEN $9::boolean THEN $10 ELSE gender END,
		location = CASE WHEN $11::boolean THEN $12 ELSE location END,
		bio = CASE WHEN $13::boolean THEN $14 ELSE bio END,
		updated_at = $15
	WHERE account_id = $1
	RETURNING ` + profileColumns

const deleteProfileByOwnerQuery = `DELETE FROM profiles WHERE account_id = $1 RETURNING id`

// Create checks for an existing profile and inserts inside one transaction.
// The unique constraint on account_id settles concurrent creates.
func (r *Repository) Create(ctx context.Context, in NewProfile, now time.Time) (Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, ownerHasProfileQuery, in.AccountID).Scan(&exists); err != nil {
		return Profile{}, err
	}
	if exists {
		return Profile{}, ErrProfileAlreadyExists
	}

	profile, err := scanProfile(tx.QueryRow(ctx, insertProfileQuery,
		uuid.New(), in.AccountID, in.FirstName, in.LastName, in.Email,
		in.Phone, in.BirthDate, in.Gender, in.Location, in.Bio, now,
	))
	if db.IsUniqueViolation(err, profileOwnerConstraint) {
		return Profile{}, ErrProfileAlreadyExists
	}
	if err != nil {
		return Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		if db.IsUniqueViolation(err, profileOwnerConstraint) {
			return Profile{}, ErrProfileAlreadyExists
		}
		return Profile{}, err
	}
	return profile, nil
}

func (r *Repository) GetByOwner(ctx context.Context, accountID uuid.UUID) (Profile, error) {
	return r.queryOne(ctx, selectProfileByOwnerQuery, accountID)
}

func (r *Repository) GetByID(ctx context.Context, profileID uuid.UUID) (Profile, error) {
	return r.queryOne(ctx, selectProfileByIDQuery, profileID)
}

func (r *Repository) UpdateByOwner(ctx context.Context, accountID uuid.UUID, patch ProfilePatch, now time.Time) (Profile, error) {
	return r.queryOne(ctx, updateProfileByOwnerQuery,
		accountID, patch.FirstName, patch.LastName, patch.Email,
		patch.Phone.Set, patch.Phone.Value,
		patch.BirthDate.Set, patch.BirthDate.Value,
		patch.Gender.Set, patch.Gender.Value,
		patch.Location.Set, patch.Location.Value,
		patch.Bio.Set, patch.Bio.Value,
		now,
	)
}

func (r *Repository) DeleteByOwner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, deleteProfileByOwnerQuery, accountID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return profile, err
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.BirthDate,
		&p.Gender,
		&p.Location,
		&p.Bio,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
