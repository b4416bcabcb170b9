package transport

import "time"

type SignUpRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,password"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UserResponse is the public projection of an account. It never carries
// the password hash.
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	Provider  string     `json:"provider"`
	Picture   *string    `json:"picture"`
	LastLogin *time.Time `json:"last_login"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
	User      UserResponse `json:"user"`
	ProfileID *string      `json:"profile_id"`
}

type GoogleLoginResponse struct {
	URL string `json:"url"`
}
