// Package auth wires the account context: signup, login, Google
// federation and the /users/me endpoint.
package auth

import (
	"profiles_backend/internal/auth/handler"
	"profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/service"
	"profiles_backend/internal/auth/token"
	authvalidator "profiles_backend/internal/auth/validator"
	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/platform/config"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule builds the auth module. Call WithGoogle on the returned
// module's Service to enable federated login.
func NewModule(
	repo repository.AccountStore,
	tokens *token.Service,
	profiles service.ProfileLookup,
	cookies config.CookieConfig,
	val *validator.Validator,
	eventBus events.Bus,
	log *logger.Logger,
) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	svc := service.New(repo, tokens, profiles, eventBus, log)
	return &Module{
		handler: handler.New(svc, val, cookies),
		service: svc,
	}, nil
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
}

var _ apphttp.Module = (*Module)(nil)
