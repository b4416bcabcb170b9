package config

import (
	"net/http"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ALGORITHM", "HS256")
	t.Setenv("JWT_EXPIRES_MINUTES", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetAccessTokenTTL() != time.Hour {
		t.Errorf("ttl = %s, want 1h", cfg.GetAccessTokenTTL())
	}
	if cfg.GetAccessCookieName() != "access_token" {
		t.Errorf("cookie name = %q", cfg.GetAccessCookieName())
	}
	if cfg.IsDatabaseEnabled() {
		t.Error("database must be disabled without DATABASE_URL")
	}
	if cfg.IsGoogleEnabled() {
		t.Error("google login must be disabled without client credentials")
	}
	if cfg.GetJWTSecret() != "" {
		t.Error("expected empty secret to load without error")
	}
}

func TestLoadRejectsAsymmetricAlgorithm(t *testing.T) {
	t.Setenv("JWT_ALGORITHM", "RS256")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for RS256")
	}
}

func TestLoadRejectsWildcardCORSWithCredentials(t *testing.T) {
	t.Setenv("JWT_ALGORITHM", "HS256")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for wildcard origins with credentials")
	}
}

func TestMinutesOr(t *testing.T) {
	cases := map[string]time.Duration{
		"15":    15 * time.Minute,
		"90m":   90 * time.Minute,
		"0":     time.Hour,
		"-5":    time.Hour,
		"bogus": time.Hour,
	}
	for in, want := range cases {
		if got := minutesOr(in, time.Hour); got != want {
			t.Errorf("minutesOr(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseSameSite(t *testing.T) {
	if parseSameSite("Strict") != http.SameSiteStrictMode {
		t.Error("Strict not parsed")
	}
	if parseSameSite("none") != http.SameSiteNoneMode {
		t.Error("none not parsed")
	}
	if parseSameSite("") != http.SameSiteLaxMode {
		t.Error("default must be Lax")
	}
}
