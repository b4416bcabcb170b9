package token

import "strings"

// Credentials are the two places a session token can arrive from.
type Credentials struct {
	// Authorization is the raw Authorization header value.
	Authorization string
	// Cookie is the access_token cookie value.
	Cookie string
}

// Verifier is satisfied by *Service.
type Verifier interface {
	Verify(raw string) (Principal, error)
}

// Resolver turns request credentials into a Principal. The header wins over
// the cookie whenever it carries a bearer credential.
type Resolver struct {
	verifier Verifier
}

func NewResolver(verifier Verifier) *Resolver {
	return &Resolver{verifier: verifier}
}

func (r *Resolver) Resolve(creds Credentials) (Principal, error) {
	raw, ok := bearerCredential(creds.Authorization)
	if !ok {
		raw = strings.TrimSpace(creds.Cookie)
	}
	if raw == "" {
		return Principal{}, ErrMissingCredential
	}
	return r.verifier.Verify(raw)
}

func bearerCredential(header string) (string, bool) {
	scheme, credential, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	credential = strings.TrimSpace(credential)
	return credential, credential != ""
}
