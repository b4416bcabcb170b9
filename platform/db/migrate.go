package db

import (
	"context"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseOnce sync.Once
var gooseErr error

func configureGoose() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrationsFS)
		gooseErr = goose.SetDialect("postgres")
	})
	return gooseErr
}

// Migrate applies every pending embedded migration through the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if err := configureGoose(); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Readiness pings the pool and, if the startup migration run did not
// complete, applies migrations the first time the database answers.
type Readiness struct {
	pool *pgxpool.Pool

	mu       sync.Mutex
	migrated bool
}

func NewReadiness(pool *pgxpool.Pool, migrated bool) *Readiness {
	return &Readiness{pool: pool, migrated: migrated}
}

// Check reports nil once the database is reachable and its schema is current.
func (r *Readiness) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.migrated {
		return nil
	}
	if err := Migrate(ctx, r.pool); err != nil {
		return err
	}
	r.migrated = true
	return nil
}
