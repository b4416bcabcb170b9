// Package service manages the visibility settings of the caller's profile.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profiles_backend/internal/visibility/repository"
	"profiles_backend/internal/visibility/transport"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgVisibilityNotFound = "visibility not found"
	msgVisibilityExists   = "Visibility settings already exist for this profile."
)

// ProfileResolver maps the caller to their profile id.
type ProfileResolver interface {
	ProfileIDForOwner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo     repository.VisibilityStore
	profiles ProfileResolver
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.VisibilityStore, profiles ProfileResolver, log *logger.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, log: log, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (repository.Visibility, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Visibility{}, err
	}
	v, err := s.repo.Get(ctx, profileID)
	return v, mapError(err)
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, req transport.CreateVisibilityRequest) (repository.Visibility, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Visibility{}, err
	}

	in := repository.NewVisibility{ProfileID: profileID, IsVisible: true, Scope: repository.ScopeNormal}
	if req.IsVisible != nil {
		in.IsVisible = *req.IsVisible
	}
	if req.Scope != nil {
		in.Scope = *req.Scope
	}

	v, err := s.repo.Create(ctx, in, s.timestamp())
	if err != nil {
		return repository.Visibility{}, mapError(err)
	}
	s.log.Info("visibility created", "profileId", profileID, "visible", v.IsVisible, "scope", v.Scope)
	return v, nil
}

func (s *Service) Update(ctx context.Context, accountID uuid.UUID, req transport.UpdateVisibilityRequest) (repository.Visibility, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return repository.Visibility{}, err
	}

	v, err := s.repo.Update(ctx, profileID, repository.VisibilityPatch{
		IsVisible: req.IsVisible,
		Scope:     req.Scope,
	}, s.timestamp())
	return v, mapError(err)
}

// Delete reports whether a record existed.
func (s *Service) Delete(ctx context.Context, accountID uuid.UUID) (bool, error) {
	profileID, err := s.profiles.ProfileIDForOwner(ctx, accountID)
	if err != nil {
		return false, err
	}
	return s.repo.Delete(ctx, profileID)
}

// RemoveForProfile drops the record of a deleted profile.
func (s *Service) RemoveForProfile(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, profileID); err != nil {
		return fmt.Errorf("delete visibility of profile %s: %w", profileID, err)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, msgVisibilityNotFound, err)
	case errors.Is(err, repository.ErrAlreadyExists):
		return apperr.Wrap(apperr.KindConflict, msgVisibilityExists, err)
	default:
		return err
	}
}
