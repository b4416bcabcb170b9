// Package google implements the federated login flow against Google:
// authorization-code exchange and ID token verification.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"profiles_backend/platform/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/idtoken"
)

// ErrUpstreamAuth wraps every failure reported by Google. The wrapped text
// is the provider's own diagnostic.
var ErrUpstreamAuth = errors.New("google authentication failed")

// Identity is the set of verified claims trusted for the account upsert.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IDTokenValidator matches idtoken.Validate.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type Provider struct {
	oauth    *oauth2.Config
	validate IDTokenValidator
}

func NewProvider(cfg config.GoogleConfig) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetGoogleClientID(),
			ClientSecret: cfg.GetGoogleClientSecret(),
			RedirectURL:  cfg.GetGoogleRedirectURI(),
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		validate: idtoken.Validate,
	}
}

// WithEndpoint points the code exchange at another token endpoint.
func (p *Provider) WithEndpoint(endpoint oauth2.Endpoint) *Provider {
	p.oauth.Endpoint = endpoint
	return p
}

// WithValidator swaps the ID token verification routine.
func (p *Provider) WithValidator(validate IDTokenValidator) *Provider {
	p.validate = validate
	return p
}

// LoginURL is where the browser is sent to start the flow.
func (p *Provider) LoginURL(state string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades an authorization code for tokens and verifies the ID
// token that comes back with them.
func (p *Provider) Exchange(ctx context.Context, code string) (Identity, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, upstream(err)
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return Identity{}, fmt.Errorf("%w: token response did not include an id_token", ErrUpstreamAuth)
	}
	return p.VerifyIDToken(ctx, rawIDToken)
}

// VerifyIDToken checks signature, issuer and audience of a Google ID token
// and requires a verified email.
func (p *Provider) VerifyIDToken(ctx context.Context, rawIDToken string) (Identity, error) {
	payload, err := p.validate(ctx, rawIDToken, p.oauth.ClientID)
	if err != nil {
		return Identity{}, upstream(err)
	}

	identity := identityFromPayload(payload)
	if identity.Subject == "" || identity.Email == "" {
		return Identity{}, fmt.Errorf("%w: id token is missing sub or email", ErrUpstreamAuth)
	}
	if !identity.EmailVerified {
		return Identity{}, fmt.Errorf("%w: email address is not verified", ErrUpstreamAuth)
	}
	return identity, nil
}

func identityFromPayload(payload *idtoken.Payload) Identity {
	claim := func(key string) string {
		v, _ := payload.Claims[key].(string)
		return strings.TrimSpace(v)
	}

	subject := payload.Subject
	if subject == "" {
		subject = claim("sub")
	}

	var verified bool
	switch v := payload.Claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = strings.EqualFold(v, "true")
	}

	return Identity{
		Subject:       subject,
		Email:         strings.ToLower(claim("email")),
		EmailVerified: verified,
		Name:          claim("name"),
		Picture:       claim("picture"),
	}
}

func upstream(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		diagnostic := retrieveErr.ErrorCode
		if retrieveErr.ErrorDescription != "" {
			diagnostic += ": " + retrieveErr.ErrorDescription
		}
		if diagnostic != "" {
			return fmt.Errorf("%w: %s", ErrUpstreamAuth, diagnostic)
		}
	}
	return fmt.Errorf("%w: %s", ErrUpstreamAuth, err.Error())
}
