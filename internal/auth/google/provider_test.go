package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

type googleConfig struct{}

func (googleConfig) GetGoogleClientID() string     { return "client-id" }
func (googleConfig) GetGoogleClientSecret() string { return "client-secret" }
func (googleConfig) GetGoogleRedirectURI() string  { return "http://localhost:8000/api/v1/auth/google/callback" }
func (googleConfig) IsGoogleEnabled() bool         { return true }

func validPayload(_ context.Context, idToken, audience string) (*idtoken.Payload, error) {
	if idToken != "good-id-token" {
		return nil, errors.New("idtoken: invalid token signature")
	}
	if audience != "client-id" {
		return nil, errors.New("idtoken: audience mismatch")
	}
	return &idtoken.Payload{
		Subject: "google-sub-1",
		Claims: map[string]any{
			"email":          "Grace@Example.com",
			"email_verified": true,
			"name":           "Grace Hopper",
			"picture":        "https://lh3.example/photo.jpg",
		},
	}, nil
}

func tokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("code") == "" {
			t.Errorf("exchange request carried no code")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *Provider {
	return NewProvider(googleConfig{}).
		WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams}).
		WithValidator(validPayload)
}

func TestExchangeReturnsVerifiedIdentity(t *testing.T) {
	srv := tokenServer(t, http.StatusOK, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"good-id-token"}`)

	identity, err := newTestProvider(srv).Exchange(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if identity.Subject != "google-sub-1" || identity.Email != "grace@example.com" || identity.Name != "Grace Hopper" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestExchangePropagatesProviderDiagnostic(t *testing.T) {
	srv := tokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Bad Request"}`)

	_, err := newTestProvider(srv).Exchange(context.Background(), "stale-code")
	if !errors.Is(err, ErrUpstreamAuth) {
		t.Fatalf("err = %v, want ErrUpstreamAuth", err)
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("provider diagnostic lost: %v", err)
	}
}

func TestExchangeWithoutIDToken(t *testing.T) {
	srv := tokenServer(t, http.StatusOK, `{"access_token":"at","token_type":"Bearer"}`)

	if _, err := newTestProvider(srv).Exchange(context.Background(), "code"); !errors.Is(err, ErrUpstreamAuth) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerifyIDTokenRejectsUnverifiedEmail(t *testing.T) {
	p := NewProvider(googleConfig{}).WithValidator(func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "s", Claims: map[string]any{"email": "a@x.com", "email_verified": "false"}}, nil
	})

	if _, err := p.VerifyIDToken(context.Background(), "anything"); !errors.Is(err, ErrUpstreamAuth) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerifyIDTokenRejectsBadToken(t *testing.T) {
	p := NewProvider(googleConfig{}).WithValidator(validPayload)

	_, err := p.VerifyIDToken(context.Background(), "forged")
	if !errors.Is(err, ErrUpstreamAuth) || !strings.Contains(err.Error(), "invalid token signature") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoginURLCarriesStateAndClient(t *testing.T) {
	raw := NewProvider(googleConfig{}).LoginURL("state-abc")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "state-abc" || q.Get("client_id") != "client-id" || q.Get("response_type") != "code" {
		t.Fatalf("unexpected login url %s", raw)
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}
