// Package service implements the ownership-checked profile use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"profiles_backend/internal/events"
	"profiles_backend/internal/profiles/repository"
	"profiles_backend/internal/profiles/transport"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/logger"
	"profiles_backend/platform/phone"
	"profiles_backend/platform/sanitize"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = repository.ErrNotFound
	ErrProfileAlreadyExists = repository.ErrProfileAlreadyExists
)

const (
	msgProfileNotFound = "profile not found"
	msgProfileExists   = "Profile already exists for this user."
)

const (
	maxPhoneLength    = 32
	maxGenderLength   = 32
	maxLocationLength = 255
	maxBioLength      = 2000
)

type Service struct {
	repo     repository.ProfileStore
	phones   phone.Normalizer
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.ProfileStore, phones phone.Normalizer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		phones:   phones,
		eventBus: eventBus,
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

// Create stores the caller's profile. An account owns at most one.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, req transport.CreateProfileRequest) (repository.Profile, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return repository.Profile{}, err
	}

	profile, err := s.repo.Create(ctx, repository.NewProfile{
		AccountID: accountID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
		Phone:     s.phones.E164Ptr(req.Phone),
		BirthDate: birthDate,
		Gender:    sanitize.TrimPtr(req.Gender),
		Location:  sanitize.TrimPtr(req.Location),
		Bio:       sanitize.TextPtr(req.Bio),
	}, s.timestamp())
	if errors.Is(err, repository.ErrProfileAlreadyExists) {
		return repository.Profile{}, apperr.Wrap(apperr.KindConflict, msgProfileExists, err)
	}
	if err != nil {
		return repository.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info("profile created", "profileId", profile.ID, "accountId", accountID)
	s.eventBus.Publish(ctx, events.ProfileCreated{
		BaseEvent: events.NewBaseEvent(),
		ProfileID: profile.ID,
		AccountID: accountID,
	})
	return profile, nil
}

// GetByOwner returns the caller's own profile.
func (s *Service) GetByOwner(ctx context.Context, accountID uuid.UUID) (repository.Profile, error) {
	profile, err := s.repo.GetByOwner(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Profile{}, notFound(err)
	}
	return profile, err
}

// GetByID returns the profile only when requesterID owns it. A profile that
// belongs to someone else is reported exactly like a missing one.
func (s *Service) GetByID(ctx context.Context, profileID, requesterID uuid.UUID) (repository.Profile, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Profile{}, notFound(err)
	}
	if err != nil {
		return repository.Profile{}, err
	}
	if profile.AccountID != requesterID {
		s.log.Debug("profile read denied", "profileId", profileID, "accountId", requesterID)
		return repository.Profile{}, notFound(ErrNotFound)
	}
	return profile, nil
}

// Update applies only the fields present in req.
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, req transport.UpdateProfileRequest) (repository.Profile, error) {
	patch, err := s.buildPatch(req)
	if err != nil {
		return repository.Profile{}, err
	}

	profile, err := s.repo.UpdateByOwner(ctx, accountID, patch, s.timestamp())
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Profile{}, notFound(err)
	}
	if err != nil {
		return repository.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// Delete removes the caller's profile and reports whether there was one.
// Dependent records are removed by ProfileDeleted subscribers before it
// returns.
func (s *Service) Delete(ctx context.Context, accountID uuid.UUID) (bool, error) {
	profileID, deleted, err := s.repo.DeleteByOwner(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	if !deleted {
		return false, nil
	}

	s.log.Info("profile deleted", "profileId", profileID, "accountId", accountID)
	if err := s.eventBus.PublishSync(ctx, events.ProfileDeleted{
		BaseEvent: events.NewBaseEvent(),
		ProfileID: profileID,
		AccountID: accountID,
	}); err != nil {
		s.log.Error("profile cleanup failed", "profileId", profileID, "error", err)
	}
	return true, nil
}

func (s *Service) buildPatch(req transport.UpdateProfileRequest) (repository.ProfilePatch, error) {
	patch := repository.ProfilePatch{
		FirstName: sanitize.TrimPtr(req.FirstName),
		LastName:  sanitize.TrimPtr(req.LastName),
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		patch.Email = &email
	}

	var err error
	if patch.Phone, err = optionalText(req.Phone, "phone", maxPhoneLength, s.phones.E164Ptr); err != nil {
		return patch, err
	}
	if patch.Gender, err = optionalText(req.Gender, "gender", maxGenderLength, sanitize.TrimPtr); err != nil {
		return patch, err
	}
	if patch.Location, err = optionalText(req.Location, "location", maxLocationLength, sanitize.TrimPtr); err != nil {
		return patch, err
	}
	if patch.Bio, err = optionalText(req.Bio, "bio", maxBioLength, sanitize.TextPtr); err != nil {
		return patch, err
	}

	if req.BirthDate.Set {
		birthDate, err := parseDate(req.BirthDate.Value)
		if err != nil {
			return patch, err
		}
		patch.BirthDate = repository.Optional[time.Time]{Value: birthDate, Set: true}
	}
	return patch, nil
}

func optionalText(in transport.OptionalString, field string, maxLen int, clean func(*string) *string) (repository.Optional[string], error) {
	if !in.Set {
		return repository.Optional[string]{}, nil
	}
	if in.Value != nil && utf8.RuneCountInString(*in.Value) > maxLen {
		return repository.Optional[string]{}, apperr.Validation("validation failed").
			WithDetails(map[string]string{field: fmt.Sprintf("max=%d", maxLen)})
	}
	return repository.Optional[string]{Value: clean(in.Value), Set: true}, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(transport.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperr.Validation("validation failed").
			WithDetails(map[string]string{"birth_date": "datetime=" + transport.DateLayout})
	}
	return &parsed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound(err error) error {
	return apperr.Wrap(apperr.KindNotFound, msgProfileNotFound, err)
}
