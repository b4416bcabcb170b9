package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"profiles_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

// PresignedURLTTL bounds every URL handed to clients.
const PresignedURLTTL = 15 * time.Minute

type MinIOService struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
	now         func() time.Time
}

func NewMinIOService(cfg config.MinIOConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOService{
		client:      client,
		bucket:      cfg.GetMinIOBucketPhotos(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
		now:         time.Now,
	}, nil
}

func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinIOService) PresignUpload(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := ValidateFileSize(sizeBytes, s.maxFileSize); err != nil {
		return nil, err
	}

	fileKey := ObjectKey(folder, fileName)
	expiresAt := s.now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", fileKey, err)
	}

	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

func (s *MinIOService) PresignDownload(ctx context.Context, fileKey string) (*PresignedURL, error) {
	expiresAt := s.now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign download %s: %w", fileKey, err)
	}

	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

func (s *MinIOService) DeleteObject(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", fileKey, err)
	}
	return nil
}

// DeletePrefix streams the listing into a batch remove. Listing and removal
// run concurrently; the first failure cancels both.
func (s *MinIOService) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	objects := make(chan minio.ObjectInfo)

	g.Go(func() error {
		defer close(objects)
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if obj.Err != nil {
				return fmt.Errorf("list %s: %w", prefix, obj.Err)
			}
			select {
			case objects <- obj:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var removed, failed int
	var firstErr error
	g.Go(func() error {
		for result := range s.client.RemoveObjectsWithResult(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
			if result.Err != nil {
				failed++
				if firstErr == nil {
					firstErr = result.Err
				}
				continue
			}
			removed++
		}
		if firstErr != nil {
			return fmt.Errorf("remove %d objects under %s: %w", failed, prefix, firstErr)
		}
		return nil
	})

	err := g.Wait()
	return removed, err
}

// ObjectKey places fileName under folder with a random suffix so uploads
// never overwrite each other. Directory parts of fileName are dropped.
func ObjectKey(folder, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "photo"
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return path.Join(folder, fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], strings.ToLower(ext)))
}
