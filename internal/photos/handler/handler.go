package handler

import (
	"net/http"

	"profiles_backend/internal/adapters/storage"
	"profiles_backend/internal/photos/repository"
	"profiles_backend/internal/photos/service"
	"profiles_backend/internal/photos/transport"
	"profiles_backend/platform/httpkit"
	"profiles_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid photo ID"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the photo endpoints under the caller's profile.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/presign", h.PresignUpload)
	rg.GET("/:photoID", h.Get)
	rg.PATCH("/:photoID", h.Update)
	rg.DELETE("/:photoID", h.Delete)
	rg.GET("/:photoID/download", h.Download)
}

// GET /api/v1/profiles/me/photos
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	photos, err := h.svc.List(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	resp := make([]transport.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		resp = append(resp, toResponse(p))
	}
	httpkit.OK(c, resp)
}

// POST /api/v1/profiles/me/photos
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.CreatePhotoRequest
	if !h.bind(c, &req) {
		return
	}

	photo, err := h.svc.Create(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toResponse(photo))
}

// POST /api/v1/profiles/me/photos/presign
func (h *Handler) PresignUpload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.PresignUploadRequest
	if !h.bind(c, &req) {
		return
	}

	presigned, err := h.svc.PresignUpload(c.Request.Context(), identity.AccountID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toPresignedResponse(presigned))
}

// GET /api/v1/profiles/me/photos/:photoID
func (h *Handler) Get(c *gin.Context) {
	identity, photoID, ok := h.photoRequest(c)
	if !ok {
		return
	}

	photo, err := h.svc.Get(c.Request.Context(), identity.AccountID(), photoID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(photo))
}

// PATCH /api/v1/profiles/me/photos/:photoID
func (h *Handler) Update(c *gin.Context) {
	identity, photoID, ok := h.photoRequest(c)
	if !ok {
		return
	}
	var req transport.UpdatePhotoRequest
	if !h.bind(c, &req) {
		return
	}

	photo, err := h.svc.Update(c.Request.Context(), identity.AccountID(), photoID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(photo))
}

// DELETE /api/v1/profiles/me/photos/:photoID
func (h *Handler) Delete(c *gin.Context) {
	identity, photoID, ok := h.photoRequest(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), identity.AccountID(), photoID)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/profiles/me/photos/:photoID/download
func (h *Handler) Download(c *gin.Context) {
	identity, photoID, ok := h.photoRequest(c)
	if !ok {
		return
	}

	presigned, err := h.svc.DownloadURL(c.Request.Context(), identity.AccountID(), photoID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toPresignedResponse(presigned))
}

func (h *Handler) photoRequest(c *gin.Context) (httpkit.Identity, uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return nil, uuid.Nil, false
	}
	photoID, err := uuid.Parse(c.Param("photoID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return nil, uuid.Nil, false
	}
	return identity, photoID, true
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

func toResponse(p repository.Photo) transport.PhotoResponse {
	return transport.PhotoResponse{
		PhotoID:     p.ID.String(),
		ProfileID:   p.ProfileID.String(),
		URL:         p.URL,
		FileKey:     p.FileKey,
		IsPrimary:   p.IsPrimary,
		Description: p.Description,
		UploadedAt:  p.UploadedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPresignedResponse(p *storage.PresignedURL) transport.PresignedURLResponse {
	return transport.PresignedURLResponse{URL: p.URL, FileKey: p.FileKey, ExpiresAt: p.ExpiresAt}
}
