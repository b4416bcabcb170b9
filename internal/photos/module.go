// Package photos wires profile photo management and the cleanup of a
// deleted profile's photos.
package photos

import (
	"context"

	"profiles_backend/internal/adapters/storage"
	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/internal/photos/handler"
	"profiles_backend/internal/photos/repository"
	"profiles_backend/internal/photos/service"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule builds the module. objects may be nil when MinIO is not
// configured.
func NewModule(repo repository.PhotoStore, profiles service.ProfileResolver, objects storage.ObjectStore, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, profiles, objects, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "photos"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/profiles/me/photos"))
}

// RegisterHandlers subscribes to profile lifecycle events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ProfileDeleted{}.EventName(), m)
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProfileDeleted:
		return m.service.RemoveProfilePhotos(ctx, e.ProfileID)
	default:
		return nil
	}
}

var _ apphttp.Module = (*Module)(nil)
