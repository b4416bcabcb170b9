package handler

import (
	"net/http"

	"profiles_backend/internal/visibility/repository"
	"profiles_backend/internal/visibility/service"
	"profiles_backend/internal/visibility/transport"
	"profiles_backend/platform/httpkit"
	"profiles_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgVisibilityNotFound = "visibility not found"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("", h.Update)
	rg.DELETE("", h.Delete)
}

// GET /api/v1/profiles/me/visibility
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	v, err := h.svc.Get(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(v))
}

// POST /api/v1/profiles/me/visibility
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.CreateVisibilityRequest
	if !h.bind(c, &req) {
		return
	}

	v, err := h.svc.Create(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toResponse(v))
}

// PATCH /api/v1/profiles/me/visibility
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.UpdateVisibilityRequest
	if !h.bind(c, &req) {
		return
	}

	v, err := h.svc.Update(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(v))
}

// DELETE /api/v1/profiles/me/visibility
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, msgVisibilityNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func toResponse(v repository.Visibility) transport.VisibilityResponse {
	return transport.VisibilityResponse{
		VisibilityID:  v.ID.String(),
		ProfileID:     v.ProfileID.String(),
		IsVisible:     v.IsVisible,
		Scope:         v.Scope,
		LastToggledAt: v.LastToggledAt,
	}
}
