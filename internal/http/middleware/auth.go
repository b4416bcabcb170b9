// Package middleware contains the gin middleware that depends on domain
// packages; framework-only middleware lives in platform/httpkit.
package middleware

import (
	"net/http"

	"profiles_backend/internal/auth/token"
	"profiles_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the caller from the Authorization header or the
// access cookie and stores the principal on the gin context.
func AuthRequired(resolver *token.Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cookieName)
		principal, err := resolver.Resolve(token.Credentials{
			Authorization: c.GetHeader("Authorization"),
			Cookie:        cookie,
		})
		if err != nil {
			abort(c, err)
			return
		}

		accountID, err := principal.AccountID()
		if err != nil {
			abort(c, token.ErrInvalidToken)
			return
		}

		var name string
		if principal.Name != nil {
			name = *principal.Name
		}
		httpkit.SetIdentity(c, accountID, principal.Email, principal.Provider, name)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	appErr := token.AppError(err)
	status := appErr.HTTPStatus()
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	} else {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, httpkit.ErrorResponse{Error: appErr.Message})
}
