package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "profiles_account_id_key"}

	if !IsUniqueViolation(fmt.Errorf("insert: %w", dup), "profiles_account_id_key") {
		t.Error("expected wrapped unique violation to match its constraint")
	}
	if !IsUniqueViolation(dup, "") {
		t.Error("expected any-constraint match")
	}
	if IsUniqueViolation(dup, "accounts_email_key") {
		t.Error("constraint name must be honoured")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain"), "") {
		t.Error("plain errors never match")
	}
}
