package transport

import "time"

// DateLayout is the wire format of birth_date.
const DateLayout = "2006-01-02"

type CreateProfileRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender    *string `json:"gender" validate:"omitempty,max=32"`
	Location  *string `json:"location" validate:"omitempty,max=255"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
}

// UpdateProfileRequest is a partial update. Required fields can be changed
// but not cleared; nullable fields accept an explicit null.
type UpdateProfileRequest struct {
	FirstName *string        `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string        `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string        `json:"email" validate:"omitempty,email,max=255"`
	Phone     OptionalString `json:"phone" validate:"-"`
	BirthDate OptionalString `json:"birth_date" validate:"-"`
	Gender    OptionalString `json:"gender" validate:"-"`
	Location  OptionalString `json:"location" validate:"-"`
	Bio       OptionalString `json:"bio" validate:"-"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	BirthDate *string   `json:"birth_date"`
	Gender    *string   `json:"gender"`
	Location  *string   `json:"location"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
