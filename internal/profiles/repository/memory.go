package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps profiles in process memory. It is used when no
// database is configured and by tests.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]Profile
	byOwner map[uuid.UUID]uuid.UUID
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]Profile),
		byOwner: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, in NewProfile, now time.Time) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byOwner[in.AccountID]; exists {
		return Profile{}, ErrProfileAlreadyExists
	}

	profile := Profile{
		ID:        uuid.New(),
		AccountID: in.AccountID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     clonePtr(in.Phone),
		BirthDate: clonePtr(in.BirthDate),
		Gender:    clonePtr(in.Gender),
		Location:  clonePtr(in.Location),
		Bio:       clonePtr(in.Bio),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.byID[profile.ID] = profile
	m.byOwner[profile.AccountID] = profile.ID
	return cloneProfile(profile), nil
}

func (m *MemoryRepository) GetByOwner(_ context.Context, accountID uuid.UUID) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byOwner[accountID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return cloneProfile(m.byID[id]), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, profileID uuid.UUID) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.byID[profileID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return cloneProfile(profile), nil
}

func (m *MemoryRepository) UpdateByOwner(_ context.Context, accountID uuid.UUID, patch ProfilePatch, now time.Time) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byOwner[accountID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	profile := m.byID[id]

	if patch.FirstName != nil {
		profile.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		profile.LastName = *patch.LastName
	}
	if patch.Email != nil {
		profile.Email = *patch.Email
	}
	apply(&profile.Phone, patch.Phone)
	apply(&profile.BirthDate, patch.BirthDate)
	apply(&profile.Gender, patch.Gender)
	apply(&profile.Location, patch.Location)
	apply(&profile.Bio, patch.Bio)
	profile.UpdatedAt = now

	m.byID[id] = profile
	return cloneProfile(profile), nil
}

func (m *MemoryRepository) DeleteByOwner(_ context.Context, accountID uuid.UUID) (uuid.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byOwner[accountID]
	if !ok {
		return uuid.Nil, false, nil
	}
	delete(m.byOwner, accountID)
	delete(m.byID, id)
	return id, true, nil
}

func apply[T any](dst **T, field Optional[T]) {
	if field.Set {
		*dst = clonePtr(field.Value)
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProfile(p Profile) Profile {
	p.Phone = clonePtr(p.Phone)
	p.BirthDate = clonePtr(p.BirthDate)
	p.Gender = clonePtr(p.Gender)
	p.Location = clonePtr(p.Location)
	p.Bio = clonePtr(p.Bio)
	return p
}
