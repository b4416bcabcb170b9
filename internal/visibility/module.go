// Package visibility wires the per-profile visibility settings.
package visibility

import (
	"context"

	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/internal/visibility/handler"
	"profiles_backend/internal/visibility/repository"
	"profiles_backend/internal/visibility/service"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(repo repository.VisibilityStore, profiles service.ProfileResolver, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, profiles, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "visibility"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/profiles/me/visibility"))
}

// RegisterHandlers subscribes to profile lifecycle events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ProfileDeleted{}.EventName(), m)
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	if e, ok := event.(events.ProfileDeleted); ok {
		return m.service.RemoveForProfile(ctx, e.ProfileID)
	}
	return nil
}

var _ apphttp.Module = (*Module)(nil)
