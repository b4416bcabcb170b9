// Package validator registers the auth specific validation tags.
package validator

import (
	"strings"
	"unicode/utf8"

	platformvalidator "profiles_backend/platform/validator"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything after 72 bytes.
	maxPasswordBytes = 72
)

// PasswordPolicy is returned to clients when the password tag fails.
const PasswordPolicy = "Password must be between 8 characters and 72 bytes and not blank."

// Register adds the "password" tag to v.
func Register(v *platformvalidator.Validator) error {
	return v.RegisterValidation("password", validatePassword)
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsAcceptablePassword(fl.Field().String())
}

// IsAcceptablePassword applies the password policy.
func IsAcceptablePassword(password string) bool {
	if strings.TrimSpace(password) == "" {
		return false
	}
	return utf8.RuneCountInString(password) >= minPasswordLength && len(password) <= maxPasswordBytes
}
