package repository

import (
	"strings"
	"testing"
)

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func TestLocalLookupIsScopedToLocalProvider(t *testing.T) {
	query := normalize(selectLocalAccountByEmailQuery)
	if !strings.Contains(query, "where email = $1 and provider = 'local'") {
		t.Fatalf("local login query must filter on provider: %s", query)
	}
}

func TestUpsertMergeRule(t *testing.T) {
	query := normalize(upsertFederatedAccountQuery)

	required := []string{
		"on conflict (email) do update",
		"name = coalesce(nullif(excluded.name, ''), accounts.name)",
		"picture = coalesce(nullif(excluded.picture, ''), accounts.picture)",
		"provider = 'google'",
		"provider_subject = excluded.provider_subject",
		"last_login_at = excluded.last_login_at",
		"updated_at = excluded.updated_at",
	}
	for _, fragment := range required {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected upsert fragment %q", fragment)
		}
	}
	if strings.Contains(query, "created_at = excluded") {
		t.Fatal("upsert must not move created_at")
	}
	if strings.Contains(query, "password_hash") {
		t.Fatal("federated upsert must never write a password hash")
	}
}

func TestLocalSignupChecksEmailAcrossProviders(t *testing.T) {
	query := normalize(emailTakenQuery)
	if strings.Contains(query, "provider") {
		t.Fatal("signup existence check must cover every provider")
	}
}
