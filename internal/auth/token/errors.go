package token

import (
	"errors"

	"profiles_backend/platform/apperr"
)

// Client-facing messages. They never say which part of a credential failed.
const (
	MsgMisconfiguredSecret = "JWT_SECRET is not configured on the server."
	MsgMissingCredential   = "Missing authentication token."
	MsgInvalidToken        = "Invalid authentication token."
	MsgTokenExpired        = "Token has expired."
)

// AppError maps token failures onto domain errors for the HTTP layer.
func AppError(err error) *apperr.Error {
	switch {
	case errors.Is(err, ErrMisconfiguredSecret):
		return apperr.Wrap(apperr.KindInternal, MsgMisconfiguredSecret, err)
	case errors.Is(err, ErrMissingCredential):
		return apperr.Wrap(apperr.KindUnauthorized, MsgMissingCredential, err)
	case errors.Is(err, ErrTokenExpired):
		return apperr.Wrap(apperr.KindUnauthorized, MsgTokenExpired, err)
	default:
		return apperr.Wrap(apperr.KindUnauthorized, MsgInvalidToken, err)
	}
}
