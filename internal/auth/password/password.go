// Package password hashes and checks local account passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash means the stored hash is not a bcrypt hash. It points at
// corrupted data, not at a caller mistake.
var ErrMalformedHash = errors.New("password: stored hash is malformed")

var cost = bcrypt.DefaultCost

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash. A mismatch is (false, nil);
// only a malformed hash returns an error.
func Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrMalformedHash, err)
	}
}
