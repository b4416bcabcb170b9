package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profiles_backend/internal/adapters"
	"profiles_backend/internal/adapters/storage"
	"profiles_backend/internal/auth"
	"profiles_backend/internal/auth/google"
	authrepo "profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/email"
	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/internal/http/router"
	"profiles_backend/internal/notification"
	"profiles_backend/internal/photos"
	photosrepo "profiles_backend/internal/photos/repository"
	"profiles_backend/internal/profiles"
	profilesrepo "profiles_backend/internal/profiles/repository"
	"profiles_backend/internal/visibility"
	visibilityrepo "profiles_backend/internal/visibility/repository"
	"profiles_backend/platform/config"
	"profiles_backend/platform/db"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/phone"
	"profiles_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// eventSubscriber is implemented by modules that react to domain events.
type eventSubscriber interface {
	RegisterHandlers(bus events.Bus)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool, health := initDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	if cfg.GetJWTSecret() == "" {
		log.DependencyDegraded("jwt", errors.New("JWT_SECRET is empty; token operations will fail"))
	}

	val := validator.New()
	eventBus := events.NewInMemoryBus(log)
	tokens := token.NewService(cfg)
	phones := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())

	states, closeRedis := initStateStore(ctx, cfg, log)
	if closeRedis != nil {
		defer closeRedis()
	}

	objects := initObjectStore(ctx, cfg, log)

	var sender email.Sender = email.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Info("SMTP not configured; welcome emails disabled")
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	profileStore := profilesrepo.NewStore(pool)
	profileLookup := adapters.NewProfileLookupAdapter(profileStore)

	authModule, err := auth.NewModule(authrepo.NewStore(pool), tokens, profileLookup, cfg, val, eventBus, log)
	if err != nil {
		panic("failed to initialize auth module: " + err.Error())
	}
	if cfg.IsGoogleEnabled() {
		authModule.Service().WithGoogle(google.NewProvider(cfg), states)
	} else {
		log.Info("Google OAuth not configured; federated login disabled")
	}

	profilesModule := profiles.NewModule(profileStore, phones, val, eventBus, log)
	photosModule := photos.NewModule(photosrepo.NewStore(pool), profileLookup, objects, val, log)
	visibilityModule := visibility.NewModule(visibilityrepo.NewStore(pool), profileLookup, val, log)
	notificationModule := notification.New(sender, log)

	for _, sub := range []eventSubscriber{photosModule, visibilityModule, notificationModule} {
		sub.RegisterHandlers(eventBus)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Resolver: token.NewResolver(tokens),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			profilesModule,
			photosModule,
			visibilityModule,
		},
	}
	if health != nil {
		app.Health = health
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initDatabase returns a nil pool when DATABASE_URL is unset, which selects
// the in-memory stores. A database that is configured but unreachable keeps
// its pool; readiness reports 503 until it answers.
func initDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, *db.Readiness) {
	if !cfg.IsDatabaseEnabled() {
		log.Warn("DATABASE_URL not configured; using in-memory stores")
		return nil, nil
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		// An unparsable URL cannot recover without a restart.
		panic("failed to create database pool: " + err.Error())
	}

	migrated := false
	err = withRetry(ctx, log, "database migrations", 3, time.Second, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return err
		}
		return db.Migrate(ctx, pool)
	})
	if err != nil {
		log.DependencyDegraded("postgres", err)
	} else {
		migrated = true
		log.Info("database migrations complete")
	}

	return pool, db.NewReadiness(pool, migrated)
}

func initStateStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (google.StateStore, func()) {
	if !cfg.IsRedisEnabled() {
		return google.CookieStateStore{}, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.DependencyDegraded("redis", err)
		return google.CookieStateStore{}, nil
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.DependencyDegraded("redis", err)
		_ = rdb.Close()
		return google.CookieStateStore{}, nil
	}

	return google.NewRedisStateStore(rdb), func() {
		_ = rdb.Close()
	}
}

// initObjectStore returns nil when MinIO is not configured or unusable;
// photo uploads then answer 503.
func initObjectStore(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) storage.ObjectStore {
	if !cfg.IsMinIOEnabled() {
		log.Info("MinIO not configured; photo uploads disabled")
		return nil
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.DependencyDegraded("minio", err)
		return nil
	}
	if err := withRetry(ctx, log, "ensure photos bucket", 3, time.Second, func() error {
		return svc.EnsureBucket(ctx)
	}); err != nil {
		log.DependencyDegraded("minio", err)
		return nil
	}
	return svc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
