package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps visibility records keyed by profile.
type MemoryRepository struct {
	mu        sync.Mutex
	byProfile map[uuid.UUID]Visibility
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{byProfile: make(map[uuid.UUID]Visibility)}
}

func (m *MemoryRepository) Get(_ context.Context, profileID uuid.UUID) (Visibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.byProfile[profileID]
	if !ok {
		return Visibility{}, ErrNotFound
	}
	return v, nil
}

func (m *MemoryRepository) Create(_ context.Context, in NewVisibility, now time.Time) (Visibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byProfile[in.ProfileID]; exists {
		return Visibility{}, ErrAlreadyExists
	}
	v := Visibility{
		ID:            uuid.New(),
		ProfileID:     in.ProfileID,
		IsVisible:     in.IsVisible,
		Scope:         in.Scope,
		LastToggledAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.byProfile[in.ProfileID] = v
	return v, nil
}

func (m *MemoryRepository) Update(_ context.Context, profileID uuid.UUID, patch VisibilityPatch, now time.Time) (Visibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.byProfile[profileID]
	if !ok {
		return Visibility{}, ErrNotFound
	}
	if patch.IsVisible != nil {
		v.IsVisible = *patch.IsVisible
	}
	if patch.Scope != nil {
		v.Scope = *patch.Scope
	}
	v.LastToggledAt = now
	v.UpdatedAt = now
	m.byProfile[profileID] = v
	return v, nil
}

func (m *MemoryRepository) Delete(_ context.Context, profileID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byProfile[profileID]; !ok {
		return false, nil
	}
	delete(m.byProfile, profileID)
	return true, nil
}
