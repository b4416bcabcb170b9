package handler

import (
	"net/http"

	"profiles_backend/internal/profiles/repository"
	"profiles_backend/internal/profiles/service"
	"profiles_backend/internal/profiles/transport"
	"profiles_backend/platform/httpkit"
	"profiles_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid profile ID"
	msgProfileNotFound  = "profile not found"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the profile endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/me", h.GetMine)
	rg.PATCH("/me", h.UpdateMine)
	rg.DELETE("/me", h.DeleteMine)
	rg.GET("/:id", h.GetByID)
}

// Create stores the caller's profile.
// POST /api/v1/profiles
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.CreateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	profile, err := h.svc.Create(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, ToResponse(profile))
}

// GET /api/v1/profiles/me
func (h *Handler) GetMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.GetByOwner(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, ToResponse(profile))
}

// PATCH /api/v1/profiles/me
func (h *Handler) UpdateMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, ToResponse(profile))
}

// DeleteMine answers 204, or 404 when the caller had no profile.
// DELETE /api/v1/profiles/me
func (h *Handler) DeleteMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, msgProfileNotFound, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetByID answers 404 both for unknown ids and for other accounts' profiles.
// GET /api/v1/profiles/:id
func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	profile, err := h.svc.GetByID(c.Request.Context(), id, identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, ToResponse(profile))
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

func ToResponse(p repository.Profile) transport.ProfileResponse {
	resp := transport.ProfileResponse{
		ID:        p.ID.String(),
		UserID:    p.AccountID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Gender:    p.Gender,
		Location:  p.Location,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BirthDate != nil {
		date := p.BirthDate.Format(transport.DateLayout)
		resp.BirthDate = &date
	}
	return resp
}
