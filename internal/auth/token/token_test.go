package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type jwtConfig struct {
	secret string
	alg    string
	ttl    time.Duration
}

func (c jwtConfig) GetJWTSecret() string             { return c.secret }
func (c jwtConfig) GetJWTAlgorithm() string          { return c.alg }
func (c jwtConfig) GetAccessTokenTTL() time.Duration { return c.ttl }

func newService(secret string) *Service {
	return NewService(jwtConfig{secret: secret, alg: "HS256", ttl: time.Hour})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newService("test-secret")
	name := "Ada"

	inputs := []IssueInput{
		{SubjectID: "6f1c9a5e-3b7d-4c2a-9d57-1f0e2a6b8c11", Email: "a@x.com", Provider: ProviderLocal},
		{SubjectID: "b9e1d0c4-2f3a-4b5c-8d6e-7f8091a2b3c4", Email: "g@x.com", Name: &name, Provider: ProviderGoogle},
	}
	for _, in := range inputs {
		raw, err := svc.Issue(in)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		p, err := svc.Verify(raw)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if p.SubjectID != in.SubjectID || p.Email != in.Email || p.Provider != in.Provider {
			t.Fatalf("principal %+v does not match input %+v", p, in)
		}
		if !p.IssuedAt.Before(p.ExpiresAt) {
			t.Fatalf("iat %s must precede exp %s", p.IssuedAt, p.ExpiresAt)
		}
		if (in.Name == nil) != (p.Name == nil) {
			t.Fatalf("name presence mismatch: %v vs %v", in.Name, p.Name)
		}
	}
}

func TestIssueIsDeterministicForFixedClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newService("test-secret").WithClock(func() time.Time { return fixed })
	in := IssueInput{SubjectID: "id-1", Email: "a@x.com", Provider: ProviderLocal}

	a, _ := svc.Issue(in)
	b, _ := svc.Issue(in)
	if a != b {
		t.Fatal("identical claims and timestamp must encode identically")
	}
}

func TestVerifyFlippedSignatureIsInvalid(t *testing.T) {
	svc := newService("test-secret")
	raw, err := svc.Issue(IssueInput{SubjectID: "id-1", Email: "a@x.com", Provider: ProviderLocal})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sigStart := strings.LastIndex(raw, ".") + 1
	flipped := []byte(raw)
	if flipped[sigStart] == 'A' {
		flipped[sigStart] = 'B'
	} else {
		flipped[sigStart] = 'A'
	}

	_, err = svc.Verify(string(flipped))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newService("test-secret")
	raw, err := svc.IssueWithTTL(IssueInput{SubjectID: "id-1", Email: "a@x.com", Provider: ProviderLocal}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL: %v", err)
	}

	_, err = svc.Verify(raw)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyExpiredAndTamperedIsInvalid(t *testing.T) {
	svc := newService("test-secret")
	raw, _ := svc.IssueWithTTL(IssueInput{SubjectID: "id-1", Email: "a@x.com", Provider: ProviderLocal}, -time.Minute)

	_, err := newService("other-secret").Verify(raw)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken before expiry is considered", err)
	}
}

func TestVerifyIgnoresFutureIssuedAt(t *testing.T) {
	issuer := newService("test-secret").WithClock(func() time.Time { return time.Now().Add(10 * time.Minute) })
	raw, _ := issuer.Issue(IssueInput{SubjectID: "id-1", Email: "a@x.com", Provider: ProviderLocal})

	if _, err := newService("test-secret").Verify(raw); err != nil {
		t.Fatalf("clock skew on iat must be tolerated, got %v", err)
	}
}

func TestMisconfiguredSecret(t *testing.T) {
	svc := newService("")
	if _, err := svc.Issue(IssueInput{SubjectID: "id", Email: "a@x.com", Provider: ProviderLocal}); !errors.Is(err, ErrMisconfiguredSecret) {
		t.Fatalf("Issue err = %v", err)
	}
	if _, err := svc.Verify("a.b.c"); !errors.Is(err, ErrMisconfiguredSecret) {
		t.Fatalf("Verify err = %v", err)
	}
}

func TestVerifyRejectsGarbageAndOtherAlgorithms(t *testing.T) {
	svc := newService("test-secret")
	if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}

	hs512 := NewService(jwtConfig{secret: "test-secret", alg: "HS512", ttl: time.Hour})
	raw, _ := hs512.Issue(IssueInput{SubjectID: "id", Email: "a@x.com", Provider: ProviderLocal})
	if _, err := svc.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("HS512 token accepted by HS256 verifier: %v", err)
	}
}

func TestVerifyRejectsUnknownProvider(t *testing.T) {
	svc := newService("test-secret")
	raw, _ := svc.Issue(IssueInput{SubjectID: "id", Email: "a@x.com", Provider: "github"})
	if _, err := svc.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
