package transport

import "time"

// CreateVisibilityRequest defaults to visible with the normal scope.
type CreateVisibilityRequest struct {
	IsVisible *bool   `json:"is_visible"`
	Scope     *string `json:"visibility_scope" validate:"omitempty,oneof=close normal wide"`
}

type UpdateVisibilityRequest struct {
	IsVisible *bool   `json:"is_visible"`
	Scope     *string `json:"visibility_scope" validate:"omitempty,oneof=close normal wide"`
}

type VisibilityResponse struct {
	VisibilityID  string    `json:"visibility_id"`
	ProfileID     string    `json:"profile_id"`
	IsVisible     bool      `json:"is_visible"`
	Scope         string    `json:"visibility_scope"`
	LastToggledAt time.Time `json:"last_toggled_at"`
}
