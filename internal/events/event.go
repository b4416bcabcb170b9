// Package events defines the domain events modules publish to each other.
// The bus itself lives in platform/events.
package events

import (
	"profiles_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// AccountSignedUp is published when an account is created, by local signup
// or by a first federated login.
type AccountSignedUp struct {
	BaseEvent
	AccountID uuid.UUID `json:"accountId"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Provider  string    `json:"provider"`
}

func (e AccountSignedUp) EventName() string { return "auth.account.signed_up" }

// AccountLoggedIn is published after every successful login.
type AccountLoggedIn struct {
	BaseEvent
	AccountID uuid.UUID `json:"accountId"`
	Provider  string    `json:"provider"`
}

func (e AccountLoggedIn) EventName() string { return "auth.account.logged_in" }

type ProfileCreated struct {
	BaseEvent
	ProfileID uuid.UUID `json:"profileId"`
	AccountID uuid.UUID `json:"accountId"`
}

func (e ProfileCreated) EventName() string { return "profiles.profile.created" }

// ProfileDeleted lets dependent resources (photos, visibility) clean up.
type ProfileDeleted struct {
	BaseEvent
	ProfileID uuid.UUID `json:"profileId"`
	AccountID uuid.UUID `json:"accountId"`
}

func (e ProfileDeleted) EventName() string { return "profiles.profile.deleted" }
