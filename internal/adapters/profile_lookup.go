package adapters

import (
	"context"
	"errors"

	"profiles_backend/internal/profiles/repository"
	"profiles_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgProfileNotFound = "profile not found"

// ProfileLookupAdapter answers "which profile does this account own" for
// the modules that hang data off a profile.
type ProfileLookupAdapter struct {
	profiles repository.ProfileStore
}

func NewProfileLookupAdapter(profiles repository.ProfileStore) *ProfileLookupAdapter {
	return &ProfileLookupAdapter{profiles: profiles}
}

// ProfileIDByAccount returns nil when the account has no profile yet. Used
// by auth to fill profile_id in login responses.
func (a *ProfileLookupAdapter) ProfileIDByAccount(ctx context.Context, accountID uuid.UUID) (*uuid.UUID, error) {
	profile, err := a.profiles.GetByOwner(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile.ID, nil
}

// ProfileIDForOwner fails with a not-found apperr when the account has no
// profile. Used by photos and visibility.
func (a *ProfileLookupAdapter) ProfileIDForOwner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	profile, err := a.profiles.GetByOwner(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, apperr.Wrap(apperr.KindNotFound, msgProfileNotFound, err)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}
