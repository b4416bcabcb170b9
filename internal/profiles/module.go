// Package profiles wires the profile context: one profile per account,
// readable and writable only by its owner.
package profiles

import (
	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/internal/profiles/handler"
	"profiles_backend/internal/profiles/repository"
	"profiles_backend/internal/profiles/service"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/phone"
	"profiles_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.ProfileStore
}

func NewModule(repo repository.ProfileStore, phones phone.Normalizer, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repo, phones, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

func (m *Module) Name() string {
	return "profiles"
}

func (m *Module) Service() *service.Service {
	return m.service
}

// Repository is used by the adapters that resolve an account's profile.
func (m *Module) Repository() repository.ProfileStore {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/profiles"))
}

var _ apphttp.Module = (*Module)(nil)
