package transport

import (
	"encoding/json"
	"time"
)

type CreatePhotoRequest struct {
	URL         string  `json:"url" validate:"required,url,max=2048"`
	FileKey     *string `json:"file_key" validate:"omitempty,max=512"`
	ContentType *string `json:"content_type" validate:"omitempty,max=100"`
	IsPrimary   bool    `json:"is_primary"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdatePhotoRequest struct {
	URL         *string             `json:"url" validate:"omitempty,url,max=2048"`
	IsPrimary   *bool               `json:"is_primary"`
	Description OptionalDescription `json:"description" validate:"-"`
}

// OptionalDescription tells an explicit null apart from an absent field.
type OptionalDescription struct {
	Value *string
	Set   bool
}

func (o OptionalDescription) IsZero() bool {
	return !o.Set
}

func (o *OptionalDescription) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = &raw
	return nil
}

type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0"`
}

type PresignedURLResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"file_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PhotoResponse struct {
	PhotoID     string    `json:"photo_id"`
	ProfileID   string    `json:"profile_id"`
	URL         string    `json:"url"`
	FileKey     *string   `json:"file_key,omitempty"`
	IsPrimary   bool      `json:"is_primary"`
	Description *string   `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
