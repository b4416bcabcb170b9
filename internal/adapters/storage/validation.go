package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes lists the image types accepted for profile photos.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
}

// ValidateContentType ignores parameters such as charset.
func ValidateContentType(contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("%w: %q", ErrContentTypeNotAllowed, contentType)
	}
	return nil
}

func ValidateFileSize(sizeBytes, maxFileSize int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("%w: must be greater than 0", ErrInvalidFileSize)
	}
	if maxFileSize > 0 && sizeBytes > maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidFileSize, sizeBytes, maxFileSize)
	}
	return nil
}
