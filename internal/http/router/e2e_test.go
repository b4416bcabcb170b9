package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"profiles_backend/internal/adapters"
	"profiles_backend/internal/auth"
	authrepo "profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/token"
	"profiles_backend/internal/events"
	apphttp "profiles_backend/internal/http"
	"profiles_backend/internal/notification"
	"profiles_backend/internal/photos"
	photosrepo "profiles_backend/internal/photos/repository"
	"profiles_backend/internal/profiles"
	profilesrepo "profiles_backend/internal/profiles/repository"
	"profiles_backend/internal/visibility"
	visibilityrepo "profiles_backend/internal/visibility/repository"
	"profiles_backend/platform/config"
	"profiles_backend/platform/phone"
	"profiles_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// newFullEngine wires every module against the in-memory stores, the same
// way the binary does without DATABASE_URL.
func newFullEngine(t *testing.T) (*gin.Engine, *visibilityrepo.MemoryRepository) {
	t.Helper()
	app := newTestApp(nil)
	cfg := app.Config.(*config.Config)
	log := app.Logger

	val := validator.New()
	bus := events.NewInMemoryBus(log)
	tokens := token.NewService(cfg)

	profileStore := profilesrepo.NewMemory()
	lookup := adapters.NewProfileLookupAdapter(profileStore)

	authModule, err := auth.NewModule(authrepo.NewMemory(), tokens, lookup, cfg, val, bus, log)
	if err != nil {
		t.Fatalf("auth module: %v", err)
	}
	profilesModule := profiles.NewModule(profileStore, phone.NewNormalizer("US"), val, bus, log)
	photosModule := photos.NewModule(photosrepo.NewMemory(), lookup, nil, val, log)
	visibilityStore := visibilityrepo.NewMemory()
	visibilityModule := visibility.NewModule(visibilityStore, lookup, val, log)

	photosModule.RegisterHandlers(bus)
	visibilityModule.RegisterHandlers(bus)
	notification.New(nil, log).RegisterHandlers(bus)

	app.EventBus = bus
	app.Resolver = token.NewResolver(tokens)
	app.Modules = []apphttp.Module{authModule, profilesModule, photosModule, visibilityModule}
	return New(app), visibilityStore
}

func do(t *testing.T, engine *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type sessionBody struct {
	Token     string  `json:"token"`
	ProfileID *string `json:"profile_id"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

func TestAccountAndProfileLifecycle(t *testing.T) {
	engine, visibilityStore := newFullEngine(t)
	creds := map[string]string{"email": "a@x.com", "password": "longenough1"}

	rec := do(t, engine, http.MethodPost, "/api/v1/auth/signup", "", creds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodPost, "/api/v1/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}
	session := decode[sessionBody](t, rec)
	if session.Token == "" || session.User.Email != "a@x.com" || session.ProfileID != nil {
		t.Fatalf("session = %+v", session)
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/users/me", session.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}

	profile := map[string]any{"first_name": "Ada", "last_name": "L", "email": "ada@x.com"}
	rec = do(t, engine, http.MethodPost, "/api/v1/profiles", session.Token, profile)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create profile status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[struct {
		ID string `json:"id"`
	}](t, rec)
	profileID := uuid.MustParse(created.ID)

	rec = do(t, engine, http.MethodPost, "/api/v1/profiles", session.Token, profile)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate profile status = %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/api/v1/profiles/me/visibility", session.Token, map[string]any{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create visibility status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodPost, "/api/v1/auth/login", "", creds)
	if relogin := decode[sessionBody](t, rec); relogin.ProfileID == nil {
		t.Fatal("login after profile creation should carry profile_id")
	}

	rec = do(t, engine, http.MethodDelete, "/api/v1/profiles/me", session.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = do(t, engine, http.MethodDelete, "/api/v1/profiles/me", session.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error != "profile not found" {
		t.Fatalf("second delete body = %+v", body)
	}

	if _, err := visibilityStore.Get(context.Background(), profileID); !errors.Is(err, visibilityrepo.ErrNotFound) {
		t.Fatalf("visibility should be removed with the profile, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	engine, _ := newFullEngine(t)
	do(t, engine, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"email": "a@x.com", "password": "longenough1"})

	wrongPassword := do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrongpass99"})
	unknownEmail := do(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "b@x.com", "password": "longenough1"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("bodies differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	engine, _ := newFullEngine(t)
	for _, path := range []string{"/api/v1/users/me", "/api/v1/profiles/me", "/api/v1/profiles/me/photos", "/api/v1/profiles/me/visibility"} {
		rec := do(t, engine, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
