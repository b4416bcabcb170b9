// Package httpkit holds gin helpers shared by every module.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextAccountIDKey holds the authenticated account id (uuid.UUID).
	ContextAccountIDKey = "accountID"
	// ContextEmailKey holds the email claim of the session token.
	ContextEmailKey = "accountEmail"
	// ContextProviderKey holds the provider tag (local or google).
	ContextProviderKey = "accountProvider"
	// ContextNameKey holds the optional display name claim.
	ContextNameKey = "accountName"
)

// Identity is the caller as seen by handlers. It hides how the middleware
// stored the principal in the gin context.
type Identity interface {
	AccountID() uuid.UUID
	Email() string
	Provider() string
	// DisplayName is empty when the token carried no name.
	DisplayName() string
	IsAuthenticated() bool
}

type identity struct {
	accountID     uuid.UUID
	email         string
	provider      string
	name          string
	authenticated bool
}

func (i *identity) AccountID() uuid.UUID  { return i.accountID }
func (i *identity) Email() string         { return i.email }
func (i *identity) Provider() string      { return i.provider }
func (i *identity) DisplayName() string   { return i.name }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// SetIdentity stores a resolved principal on the request.
func SetIdentity(c *gin.Context, accountID uuid.UUID, email, provider, name string) {
	c.Set(ContextAccountIDKey, accountID)
	c.Set(ContextEmailKey, email)
	c.Set(ContextProviderKey, provider)
	c.Set(ContextNameKey, name)
}

// GetIdentity reads the principal placed by the auth middleware. An
// unauthenticated identity is returned when none is present.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextAccountIDKey)
	if !ok {
		return &identity{}
	}
	accountID, ok := raw.(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		return &identity{}
	}

	return &identity{
		accountID:     accountID,
		email:         c.GetString(ContextEmailKey),
		provider:      c.GetString(ContextProviderKey),
		name:          c.GetString(ContextNameKey),
		authenticated: true,
	}
}

// MustGetIdentity aborts with 401 and returns nil when the request carries
// no principal.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing authentication token."})
		return nil
	}
	return id
}
