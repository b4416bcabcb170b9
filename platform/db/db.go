// Package db owns the Postgres pool and schema migrations.
package db

import (
	"context"
	"time"

	"profiles_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool builds the connection pool without requiring the database to be
// reachable yet: pgxpool dials lazily, so a later Ping decides whether the
// service starts healthy or degraded.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
