// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Each module depends on the narrow interface it needs rather than on *Config.

type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// JWTConfig carries the session token settings.
type JWTConfig interface {
	GetJWTSecret() string
	GetJWTAlgorithm() string
	GetAccessTokenTTL() time.Duration
}

// CookieConfig describes the access_token cookie written on login.
type CookieConfig interface {
	GetAccessCookieName() string
	GetAccessCookieDomain() string
	GetAccessCookiePath() string
	GetAccessCookieSecure() bool
	GetAccessCookieSameSite() http.SameSite
	GetAccessTokenTTL() time.Duration
}

// GoogleConfig holds the OAuth client used for federated login.
type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURI() string
	IsGoogleEnabled() bool
}

type RedisConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
}

type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig holds the S3-compatible storage used for profile photos.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOBucketPhotos() string
	IsMinIOEnabled() bool
}

// EmailConfig holds the SMTP relay used for welcome mails.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// ProfileConfig holds profile normalisation settings.
type ProfileConfig interface {
	GetPhoneDefaultRegion() string
}

// Config is the flat set of settings read at startup.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	JWTSecret            string
	JWTAlgorithm         string
	AccessTokenTTL       time.Duration
	AccessCookieName     string
	AccessCookieDomain   string
	AccessCookiePath     string
	AccessCookieSecure   bool
	AccessCookieSameSite http.SameSite
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURI    string
	RedisURL             string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinIOMaxFileSize     int64
	MinIOBucketPhotos    string
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	PhoneDefaultRegion   string
}

func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

func (c *Config) GetJWTSecret() string             { return c.JWTSecret }
func (c *Config) GetJWTAlgorithm() string          { return c.JWTAlgorithm }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

func (c *Config) GetAccessCookieName() string            { return c.AccessCookieName }
func (c *Config) GetAccessCookieDomain() string          { return c.AccessCookieDomain }
func (c *Config) GetAccessCookiePath() string            { return c.AccessCookiePath }
func (c *Config) GetAccessCookieSecure() bool            { return c.AccessCookieSecure }
func (c *Config) GetAccessCookieSameSite() http.SameSite { return c.AccessCookieSameSite }

func (c *Config) GetGoogleClientID() string     { return c.GoogleClientID }
func (c *Config) GetGoogleClientSecret() string { return c.GoogleClientSecret }
func (c *Config) GetGoogleRedirectURI() string  { return c.GoogleRedirectURI }
func (c *Config) IsGoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURI != ""
}

func (c *Config) GetRedisURL() string  { return c.RedisURL }
func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetMinIOEndpoint() string     { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string    { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string    { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool         { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64   { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOBucketPhotos() string { return c.MinIOBucketPhotos }
func (c *Config) IsMinIOEnabled() bool         { return c.MinIOEndpoint != "" }

func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" && c.EmailFromAddress != "" }

func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Load reads the environment, after merging an optional .env file.
// An empty JWT_SECRET is not a load error: token operations report it
// per call so the rest of the service can still start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cookieSecure := strings.EqualFold(getEnv("ACCESS_COOKIE_SECURE", ""), "true")
	if getEnv("ACCESS_COOKIE_SECURE", "") == "" {
		cookieSecure = strings.EqualFold(env, "production")
	}

	cfg := &Config{
		Env:                  env,
		HTTPAddr:             getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTAlgorithm:         strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
		AccessTokenTTL:       minutesOr(getEnv("JWT_EXPIRES_MINUTES", "60"), time.Hour),
		AccessCookieName:     getEnv("ACCESS_COOKIE_NAME", "access_token"),
		AccessCookieDomain:   getEnv("ACCESS_COOKIE_DOMAIN", ""),
		AccessCookiePath:     getEnv("ACCESS_COOKIE_PATH", "/"),
		AccessCookieSecure:   cookieSecure,
		AccessCookieSameSite: parseSameSite(getEnv("ACCESS_COOKIE_SAMESITE", "Lax")),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:     int64Or(getEnv("MINIO_MAX_FILE_SIZE", ""), 10<<20),
		MinIOBucketPhotos:    getEnv("MINIO_BUCKET_PHOTOS", "profile-photos"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             int(int64Or(getEnv("SMTP_PORT", ""), 587)),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "Profiles"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		PhoneDefaultRegion:   strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
	}

	if !supportedAlgorithms[cfg.JWTAlgorithm] {
		return nil, fmt.Errorf("JWT_ALGORITHM %q is not supported, use HS256, HS384 or HS512", cfg.JWTAlgorithm)
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// minutesOr accepts a plain minute count (JWT_EXPIRES_MINUTES=60) or a Go
// duration string (1h30m).
func minutesOr(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

func int64Or(value string, fallback int64) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || result <= 0 {
		return fallback
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
