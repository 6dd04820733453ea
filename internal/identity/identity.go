// Package identity abstracts the authentication provider holding login
// identities. The rest of the app only sees opaque ids; passwords live here
// and nowhere else.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("identity not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnavailable        = errors.New("identity store unavailable")
)

// Identity is a login-capable account in the authentication provider
type Identity struct {
	ID            string
	Email         string
	DisplayName   string
	UserType      string
	AgeGroup      string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewIdentity carries the fields needed to create an identity
type NewIdentity struct {
	Email         string
	Password      string
	DisplayName   string
	UserType      string
	AgeGroup      string
	EmailVerified bool
}

// Store is the contract the core consumes from the authentication provider.
// Implementations must treat password writes as atomic per record so that
// overlapping rotations cannot corrupt an identity.
type Store interface {
	// Create registers a new identity and returns it with its assigned id
	Create(ctx context.Context, n NewIdentity) (*Identity, error)

	// Get fetches an identity by id, returning ErrNotFound when absent
	Get(ctx context.Context, id string) (*Identity, error)

	// UpdatePassword replaces the password for an identity. The previous
	// password stops working; live sessions are unaffected.
	UpdatePassword(ctx context.Context, id, password string) error

	// Delete removes an identity. Used by saga compensation.
	Delete(ctx context.Context, id string) error

	// Authenticate verifies an email/password pair and returns the identity
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}
