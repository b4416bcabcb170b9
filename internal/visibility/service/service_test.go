package service

import (
	"context"
	"testing"
	"time"

	"profiles_backend/internal/visibility/repository"
	"profiles_backend/internal/visibility/transport"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/logger"

	"github.com/google/uuid"
)

type profileResolver map[uuid.UUID]uuid.UUID

func (r profileResolver) ProfileIDForOwner(_ context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	if id, ok := r[accountID]; ok {
		return id, nil
	}
	return uuid.Nil, apperr.NotFound("profile not found")
}

func TestVisibilityLifecycle(t *testing.T) {
	ctx := context.Background()
	owner, profileID := uuid.New(), uuid.New()
	start := time.Date(2025, 10, 18, 17, 45, 23, 0, time.UTC)
	svc := New(repository.NewMemory(), profileResolver{owner: profileID}, logger.Discard()).
		WithClock(func() time.Time { return start })

	if _, err := svc.Get(ctx, owner); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found before create, got %v", err)
	}

	v, err := svc.Create(ctx, owner, transport.CreateVisibilityRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !v.IsVisible || v.Scope != repository.ScopeNormal || !v.LastToggledAt.Equal(start) {
		t.Fatalf("defaults = %+v", v)
	}

	if _, err := svc.Create(ctx, owner, transport.CreateVisibilityRequest{}); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	later := start.Add(time.Hour)
	svc.WithClock(func() time.Time { return later })
	hidden := false
	v, err = svc.Update(ctx, owner, transport.UpdateVisibilityRequest{IsVisible: &hidden})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.IsVisible || v.Scope != repository.ScopeNormal || !v.LastToggledAt.Equal(later) {
		t.Fatalf("updated = %+v", v)
	}

	deleted, err := svc.Delete(ctx, owner)
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}
	deleted, err = svc.Delete(ctx, owner)
	if err != nil || deleted {
		t.Fatalf("second delete = %v, %v", deleted, err)
	}
}

func TestRemoveForProfile(t *testing.T) {
	ctx := context.Background()
	owner, profileID := uuid.New(), uuid.New()
	repo := repository.NewMemory()
	svc := New(repo, profileResolver{owner: profileID}, logger.Discard())

	if _, err := svc.Create(ctx, owner, transport.CreateVisibilityRequest{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.RemoveForProfile(ctx, profileID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.Get(ctx, profileID); err != repository.ErrNotFound {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestCallerWithoutProfile(t *testing.T) {
	svc := New(repository.NewMemory(), profileResolver{}, logger.Discard())
	if _, err := svc.Create(context.Background(), uuid.New(), transport.CreateVisibilityRequest{}); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
