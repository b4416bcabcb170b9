// Package token issues and verifies the signed session tokens carried in
// the Authorization header or the access_token cookie.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"profiles_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

var (
	// ErrMisconfiguredSecret is an operator fault: no signing secret is set.
	ErrMisconfiguredSecret = errors.New("token: signing secret is not configured")
	ErrInvalidToken        = errors.New("token: invalid")
	ErrTokenExpired        = errors.New("token: expired")
	ErrMissingCredential   = errors.New("token: missing credential")
)

// Principal is the identity decoded from a verified token.
type Principal struct {
	SubjectID string
	Email     string
	Name      *string
	Provider  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccountID parses the subject as an account id.
func (p Principal) AccountID() (uuid.UUID, error) {
	return uuid.Parse(p.SubjectID)
}

// IssueInput is the identity to embed in a new token.
type IssueInput struct {
	SubjectID string
	Email     string
	Name      *string
	Provider  string
}

type sessionClaims struct {
	Email    string  `json:"email"`
	Name     *string `json:"name,omitempty"`
	Provider string  `json:"provider"`
	jwt.RegisteredClaims
}

// Service signs tokens with a shared HMAC secret.
type Service struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewService(cfg config.JWTConfig) *Service {
	method, ok := jwt.GetSigningMethod(cfg.GetJWTAlgorithm()).(*jwt.SigningMethodHMAC)
	if !ok {
		method = jwt.SigningMethodHS256
	}
	ttl := cfg.GetAccessTokenTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		secret: []byte(cfg.GetJWTSecret()),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL is the lifetime given to tokens issued without an explicit one.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Issue(in IssueInput) (string, error) {
	return s.IssueWithTTL(in, 0)
}

// IssueWithTTL signs a token valid for ttl. Zero means the configured
// lifetime; a negative ttl produces a token that is already expired.
func (s *Service) IssueWithTTL(in IssueInput, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMisconfiguredSecret
	}
	if ttl == 0 {
		ttl = s.ttl
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	claims := sessionClaims{
		Email:    in.Email,
		Name:     in.Name,
		Provider: in.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.SubjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks the signature before the expiry, so a tampered token is
// always ErrInvalidToken. The iat claim is deliberately not checked.
func (s *Service) Verify(raw string) (Principal, error) {
	if len(s.secret) == 0 {
		return Principal{}, ErrMisconfiguredSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims sessionClaims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Principal{}, ErrTokenExpired
	default:
		return Principal{}, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Email) == "" {
		return Principal{}, ErrInvalidToken
	}
	if claims.Provider != ProviderLocal && claims.Provider != ProviderGoogle {
		return Principal{}, ErrInvalidToken
	}

	principal := Principal{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  claims.Provider,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	return principal, nil
}

// GenerateRandomToken returns size random bytes, base64url encoded.
func GenerateRandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
