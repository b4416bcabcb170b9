package handler

import (
	"net/http"
	"time"

	"profiles_backend/internal/auth/repository"
	"profiles_backend/internal/auth/service"
	"profiles_backend/internal/auth/transport"
	"profiles_backend/platform/apperr"
	"profiles_backend/platform/config"
	"profiles_backend/platform/httpkit"
	"profiles_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	stateCookieName = "oauth_state"
	stateCookiePath = "/api/v1/auth/google"
)

type Handler struct {
	svc     *service.Service
	val     *validator.Validator
	cookies config.CookieConfig
}

func New(svc *service.Service, val *validator.Validator, cookies config.CookieConfig) *Handler {
	return &Handler{svc: svc, val: val, cookies: cookies}
}

// RegisterRoutes mounts the public credential endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/google/login", h.GoogleLogin)
	rg.GET("/google/callback", h.GoogleCallback)
	rg.POST("/google/token", h.GoogleToken)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.svc.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	h.setAccessCookie(c, session.Token)
	httpkit.JSON(c, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setAccessCookie(c, session.Token)
	httpkit.OK(c, toSessionResponse(session))
}

// Logout only clears the cookie; tokens are stateless and expire on their own.
func (h *Handler) Logout(c *gin.Context) {
	h.clearCookie(c, h.cookies.GetAccessCookieName(), h.cookies.GetAccessCookiePath())
	httpkit.OK(c, gin.H{"message": "signed out"})
}

// GoogleLogin redirects to Google's consent screen. With ?redirect=false
// the URL is returned as JSON instead, for single page clients.
func (h *Handler) GoogleLogin(c *gin.Context) {
	loginURL, state, err := h.svc.BeginGoogleLogin(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, int(10*time.Minute/time.Second), stateCookiePath,
		h.cookies.GetAccessCookieDomain(), h.cookies.GetAccessCookieSecure(), true)

	if c.Query("redirect") == "false" {
		httpkit.OK(c, transport.GoogleLoginResponse{URL: loginURL})
		return
	}
	c.Redirect(http.StatusFound, loginURL)
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		httpkit.HandleError(c, apperr.Unauthorized("google authentication failed: "+providerErr))
		return
	}

	expected, _ := c.Cookie(stateCookieName)
	h.clearCookie(c, stateCookieName, stateCookiePath)

	session, err := h.svc.CompleteGoogleLogin(c.Request.Context(), c.Query("code"), c.Query("state"), expected)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setAccessCookie(c, session.Token)
	httpkit.OK(c, toSessionResponse(session))
}

func (h *Handler) GoogleToken(c *gin.Context) {
	var req transport.GoogleTokenRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.svc.GoogleTokenLogin(c.Request.Context(), req.IDToken)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setAccessCookie(c, session.Token)
	httpkit.OK(c, toSessionResponse(session))
}

// GetMe returns the caller's account.
func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	account, err := h.svc.Me(c.Request.Context(), identity.AccountID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toUserResponse(account))
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func (h *Handler) setAccessCookie(c *gin.Context, value string) {
	c.SetSameSite(h.cookies.GetAccessCookieSameSite())
	c.SetCookie(
		h.cookies.GetAccessCookieName(),
		value,
		int(h.cookies.GetAccessTokenTTL()/time.Second),
		h.cookies.GetAccessCookiePath(),
		h.cookies.GetAccessCookieDomain(),
		h.cookies.GetAccessCookieSecure(),
		true,
	)
}

func (h *Handler) clearCookie(c *gin.Context, name, path string) {
	c.SetSameSite(h.cookies.GetAccessCookieSameSite())
	c.SetCookie(name, "", -1, path, h.cookies.GetAccessCookieDomain(), h.cookies.GetAccessCookieSecure(), true)
}

func toUserResponse(a repository.Account) transport.UserResponse {
	return transport.UserResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Name:      a.Name,
		Provider:  a.Provider,
		Picture:   a.Picture,
		LastLogin: a.LastLoginAt,
	}
}

func toSessionResponse(s service.Session) transport.SessionResponse {
	resp := transport.SessionResponse{
		Token:     s.Token,
		TokenType: "bearer",
		ExpiresIn: int(s.ExpiresIn / time.Second),
		User:      toUserResponse(s.Account),
	}
	if s.ProfileID != nil {
		id := s.ProfileID.String()
		resp.ProfileID = &id
	}
	return resp
}
