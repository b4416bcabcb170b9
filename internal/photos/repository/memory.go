package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps photos in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	photos map[uuid.UUID]Photo
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{photos: make(map[uuid.UUID]Photo)}
}

func (m *MemoryRepository) ListByProfile(_ context.Context, profileID uuid.UUID) ([]Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	photos := make([]Photo, 0)
	for _, p := range m.photos {
		if p.ProfileID == profileID {
			photos = append(photos, clonePhoto(p))
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].IsPrimary != photos[j].IsPrimary {
			return photos[i].IsPrimary
		}
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})
	return photos, nil
}

func (m *MemoryRepository) Get(_ context.Context, profileID, photoID uuid.UUID) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.photos[photoID]
	if !ok || p.ProfileID != profileID {
		return Photo{}, ErrNotFound
	}
	return clonePhoto(p), nil
}

func (m *MemoryRepository) Create(_ context.Context, in NewPhoto, now time.Time) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	photo := Photo{
		ID:          uuid.New(),
		ProfileID:   in.ProfileID,
		URL:         in.URL,
		FileKey:     clonePtr(in.FileKey),
		ContentType: clonePtr(in.ContentType),
		IsPrimary:   in.IsPrimary,
		Description: clonePtr(in.Description),
		UploadedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if photo.IsPrimary {
		m.demoteLocked(photo.ProfileID, photo.ID, now)
	}
	m.photos[photo.ID] = photo
	return clonePhoto(photo), nil
}

func (m *MemoryRepository) Update(_ context.Context, profileID, photoID uuid.UUID, patch PhotoPatch, now time.Time) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	photo, ok := m.photos[photoID]
	if !ok || photo.ProfileID != profileID {
		return Photo{}, ErrNotFound
	}

	if patch.URL != nil {
		photo.URL = *patch.URL
	}
	if patch.IsPrimary != nil {
		photo.IsPrimary = *patch.IsPrimary
		if photo.IsPrimary {
			m.demoteLocked(profileID, photoID, now)
		}
	}
	if patch.DescriptionSet {
		photo.Description = clonePtr(patch.Description)
	}
	photo.UpdatedAt = now

	m.photos[photoID] = photo
	return clonePhoto(photo), nil
}

func (m *MemoryRepository) Delete(_ context.Context, profileID, photoID uuid.UUID) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	photo, ok := m.photos[photoID]
	if !ok || photo.ProfileID != profileID {
		return Photo{}, ErrNotFound
	}
	delete(m.photos, photoID)
	return photo, nil
}

func (m *MemoryRepository) DeleteByProfile(_ context.Context, profileID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, p := range m.photos {
		if p.ProfileID == profileID {
			delete(m.photos, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryRepository) demoteLocked(profileID, keep uuid.UUID, now time.Time) {
	for id, p := range m.photos {
		if p.ProfileID == profileID && p.IsPrimary && id != keep {
			p.IsPrimary = false
			p.UpdatedAt = now
			m.photos[id] = p
		}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonePhoto(p Photo) Photo {
	p.FileKey = clonePtr(p.FileKey)
	p.ContentType = clonePtr(p.ContentType)
	p.Description = clonePtr(p.Description)
	return p
}
