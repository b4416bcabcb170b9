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

const providerLocal = "local"
const providerGoogle = "google"

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

const accountColumns = `id, email, name, provider, provider_subject, picture, password_hash, created_at, updated_at, last_login_at`

const emailTakenQuery = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`

const insertLocalAccountQuery = `
	INSERT INTO accounts (id, email, name, provider, password_hash, created_at, updated_at)
	VALUES ($1, $2, $3, 'local', $4, $5, $5)
	RETURNING ` + accountColumns

const selectLocalAccountByEmailQuery = `
	SELECT ` + accountColumns + `
	FROM accounts
	WHERE email = $1 AND provider = 'local'`

const recordLoginQuery = `
	UPDATE accounts
	SET last_login_at = $2, updated_at = $2
	WHERE id = $1
	RETURNING ` + accountColumns

// A matching local account is converted to google in place. The password
// hash is left untouched but no longer usable for local login.
// TODO: gate the conversion on a product decision about linking accounts.
const upsertFederatedAccountQuery = `
	INSERT INTO accounts (id, email, name, provider, provider_subject, picture, created_at, updated_at, last_login_at)
	VALUES ($1, $2, $3, 'google', $4, $5, $6, $6, $6)
	ON CONFLICT (email) DO UPDATE SET
		name = COALESCE(NULLIF(EXCLUDED.name, ''), accounts.name),
		picture = COALESCE(NULLIF(EXCLUDED.picture, ''), accounts.picture),
		provider = 'google',
		provider_subject = EXCLUDED.provider_subject,
		last_login_at = EXCLUDED.last_login_at,
		updated_at = EXCLUDED.updated_at
	RETURNING ` + accountColumns

const selectAccountByIDQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

func (r *Repository) CreateLocalAccount(ctx context.Context, in NewLocalAccount, now time.Time) (Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Account{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taken bool
	if err := tx.QueryRow(ctx, emailTakenQuery, in.Email).Scan(&taken); err != nil {
		return Account{}, err
	}
	if taken {
		return Account{}, ErrAccountExists
	}

	account, err := scanAccount(tx.QueryRow(ctx, insertLocalAccountQuery,
		uuid.New(), in.Email, in.Name, in.PasswordHash, now,
	))
	if db.IsUniqueViolation(err, "accounts_email_key") {
		return Account{}, ErrAccountExists
	}
	if err != nil {
		return Account{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, err
	}
	return account, nil
}

func (r *Repository) GetLocalAccountByEmail(ctx context.Context, email string) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, selectLocalAccountByEmailQuery, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return account, err
}

func (r *Repository) RecordLogin(ctx context.Context, accountID uuid.UUID, now time.Time) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, recordLoginQuery, accountID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return account, err
}

// UpsertFederatedAccount runs as a single statement, so the lookup and the
// write observe one snapshot.
func (r *Repository) UpsertFederatedAccount(ctx context.Context, in FederatedLogin, now time.Time) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, upsertFederatedAccountQuery,
		uuid.New(), in.Email, in.Name, in.Subject, in.Picture, now,
	))
	if db.IsUniqueViolation(err, "accounts_provider_subject_key") {
		return Account{}, ErrAccountExists
	}
	return account, err
}

func (r *Repository) GetAccountByID(ctx context.Context, accountID uuid.UUID) (Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, selectAccountByIDQuery, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return account, err
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.Provider,
		&a.ProviderSubject,
		&a.Picture,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.LastLoginAt,
	)
	return a, err
}
