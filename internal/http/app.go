// Package http holds the HTTP composition types shared by the router and
// the modules.
package http

import (
	"context"

	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/events"
	"profiles_backend/platform/config"
	"profiles_backend/platform/logger"
)

// RouterConfig is the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.CookieConfig
}

// HealthChecker backs the readiness endpoint.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// App is filled in by main and handed to the router.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is nil when the service runs on in-memory stores.
	Health   HealthChecker
	Resolver *token.Resolver
	EventBus events.Bus
	Modules  []Module
}
