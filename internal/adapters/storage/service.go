// Package storage puts profile photo objects in S3-compatible storage and
// hands out presigned URLs so clients transfer bytes directly.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrInvalidFileSize       = errors.New("invalid file size")
)

// PresignedURL is a time-limited URL for one object.
type PresignedURL struct {
	URL       string
	FileKey   string
	ExpiresAt time.Time
}

// ObjectStore is bound to a single bucket.
type ObjectStore interface {
	// PresignUpload validates the declared type and size and returns a PUT
	// URL for a fresh key under folder.
	PresignUpload(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)
	PresignDownload(ctx context.Context, fileKey string) (*PresignedURL, error)
	DeleteObject(ctx context.Context, fileKey string) error
	// DeletePrefix removes every object whose key starts with prefix and
	// reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	EnsureBucket(ctx context.Context) error
}

var _ ObjectStore = (*MinIOService)(nil)
