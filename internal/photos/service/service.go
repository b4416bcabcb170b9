// Package service implements profile photo management. Every operation
// acts on the caller's own profile.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"profiles_backend/internal/adapters/storage"
	"profiles_backend/internal/photos/repository"
	"profiles_backend/internal/photos/transport"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgPhotoNotFound       = "photo not found"
	msgPrimaryConflict     = "Another photo was made primary at the same time."
	msgStorageDisabled     = "Photo storage is not configured."
	msgNoStoredObject      = "photo has no stored object"
	msgFileKeyOutsideScope = "file_key does not belong to this profile"
	maxDescriptionLength   = 1000
)

// ProfileResolver maps the caller to their profile id. It fails with a
// not-found apperr when the caller has no profile.
type ProfileResolver interface {
	ProfileIDForOwner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo     repository.PhotoStore
	profiles ProfileResolver
	objects  storage.ObjectStore
	log      *logger.Logger
	now      func() time.Time
}

// New builds the service. objects may be nil, in which case presigning
// is unavailable and photos are plain URL records.
func New(repo repository.PhotoStore, profiles ProfileResolver, objects storage.ObjectStore, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		objects:  objects,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ProfileFolder is the object key prefix owned by a profile.
func ProfileFolder(profileID uuid.UUID) string {
	return "profiles/" + profileID.String()
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]repository.Photo, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByProfile(ctx, profileID)
}

func (s *Service) Get(ctx context.Context, accountID, photoID uuid.UUID) (repository.Photo, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Photo{}, err
	}
	photo, err := s.repo.Get(ctx, profileID, photoID)
	return photo, mapError(err)
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, req transport.CreatePhotoRequest) (repository.Photo, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Photo{}, err
	}

	fileKey := sanitize.TrimPtr(req.FileKey)
	if fileKey != nil && !strings.HasPrefix(*fileKey, ProfileFolder(profileID)+"/") {
		return repository.Photo{}, apperr.Validation(msgFileKeyOutsideScope)
	}

	photo, err := s.repo.Create(ctx, repository.NewPhoto{
		ProfileID:   profileID,
		URL:         strings.TrimSpace(req.URL),
		FileKey:     fileKey,
		ContentType: sanitize.TrimPtr(req.ContentType),
		IsPrimary:   req.IsPrimary,
		Description: sanitize.TextPtr(req.Description),
	}, s.timestamp())
	if err != nil {
		return repository.Photo{}, mapError(err)
	}

	s.log.Info("photo added", "photoId", photo.ID, "profileId", profileID, "primary", photo.IsPrimary)
	return photo, nil
}

func (s *Service) Update(ctx context.Context, accountID, photoID uuid.UUID, req transport.UpdatePhotoRequest) (repository.Photo, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Photo{}, err
	}

	patch := repository.PhotoPatch{
		URL:       sanitize.TrimPtr(req.URL),
		IsPrimary: req.IsPrimary,
	}
	if req.Description.Set {
		if req.Description.Value != nil && len([]rune(*req.Description.Value)) > maxDescriptionLength {
			return repository.Photo{}, apperr.Validation("validation failed").
				WithDetails(map[string]string{"description": fmt.Sprintf("max=%d", maxDescriptionLength)})
		}
		patch.DescriptionSet = true
		patch.Description = sanitize.TextPtr(req.Description.Value)
	}

	photo, err := s.repo.Update(ctx, profileID, photoID, patch, s.timestamp())
	return photo, mapError(err)
}

// Delete removes the record and, best effort, its stored object.
func (s *Service) Delete(ctx context.Context, accountID, photoID uuid.UUID) error {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return err
	}

	photo, err := s.repo.Delete(ctx, profileID, photoID)
	if err != nil {
		return mapError(err)
	}

	if photo.FileKey != nil && s.objects != nil {
		if err := s.objects.DeleteObject(ctx, *photo.FileKey); err != nil {
			s.log.Warn("photo object not removed", "photoId", photo.ID, "fileKey", *photo.FileKey, "error", err)
		}
	}
	return nil
}

// PresignUpload returns a PUT URL inside the caller's profile folder.
func (s *Service) PresignUpload(ctx context.Context, accountID uuid.UUID, req transport.PresignUploadRequest) (*storage.PresignedURL, error) {
	if s.objects == nil {
		return nil, apperr.Unavailable(msgStorageDisabled)
	}
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}

	presigned, err := s.objects.PresignUpload(ctx, ProfileFolder(profileID), req.FileName, req.ContentType, req.SizeBytes)
	if errors.Is(err, storage.ErrContentTypeNotAllowed) || errors.Is(err, storage.ErrInvalidFileSize) {
		return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, msgStorageDisabled, err)
	}
	return presigned, nil
}

// DownloadURL presigns a GET for a photo that has a stored object.
func (s *Service) DownloadURL(ctx context.Context, accountID, photoID uuid.UUID) (*storage.PresignedURL, error) {
	if s.objects == nil {
		return nil, apperr.Unavailable(msgStorageDisabled)
	}
	photo, err := s.Get(ctx, accountID, photoID)
	if err != nil {
		return nil, err
	}
	if photo.FileKey == nil {
		return nil, apperr.NotFound(msgNoStoredObject)
	}

	presigned, err := s.objects.PresignDownload(ctx, *photo.FileKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, msgStorageDisabled, err)
	}
	return presigned, nil
}

// RemoveProfilePhotos drops every record and stored object of a deleted
// profile.
func (s *Service) RemoveProfilePhotos(ctx context.Context, profileID uuid.UUID) error {
	rows, err := s.repo.DeleteByProfile(ctx, profileID)
	if err != nil {
		return fmt.Errorf("delete photos of profile %s: %w", profileID, err)
	}

	var objects int
	if s.objects != nil {
		objects, err = s.objects.DeletePrefix(ctx, ProfileFolder(profileID)+"/")
		if err != nil {
			return fmt.Errorf("delete photo objects of profile %s: %w", profileID, err)
		}
	}

	s.log.Info("profile photos removed", "profileId", profileID, "rows", rows, "objects", objects)
	return nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, msgPhotoNotFound, err)
	case errors.Is(err, repository.ErrPrimaryConflict):
		return apperr.Wrap(apperr.KindConflict, msgPrimaryConflict, err)
	default:
		return err
	}
}
