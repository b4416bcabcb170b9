package adapters

import (
	"context"
	"testing"
	"time"

	"profiles_backend/internal/profiles/repository"
	"profiles_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestProfileLookupAdapter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	adapter := NewProfileLookupAdapter(store)
	owner := uuid.New()

	if id, err := adapter.ProfileIDByAccount(ctx, owner); err != nil || id != nil {
		t.Fatalf("expected no profile, got %v, %v", id, err)
	}
	if _, err := adapter.ProfileIDForOwner(ctx, owner); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	profile, err := store.Create(ctx, repository.NewProfile{AccountID: owner, FirstName: "A", LastName: "B", Email: "a@x.com"}, time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := adapter.ProfileIDByAccount(ctx, owner)
	if err != nil || id == nil || *id != profile.ID {
		t.Fatalf("ProfileIDByAccount = %v, %v", id, err)
	}
	got, err := adapter.ProfileIDForOwner(ctx, owner)
	if err != nil || got != profile.ID {
		t.Fatalf("ProfileIDForOwner = %v, %v", got, err)
	}
}
