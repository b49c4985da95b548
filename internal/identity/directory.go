package identity

import (
	"context"
	"errors"

	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// Sentinel errors returned by Directory implementations
var (
	// ErrEmailTaken is returned by CreateIdentity for a registered email
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrBadCredentials is returned by Authenticate on a failed login
	ErrBadCredentials = errors.New("identity: invalid credentials")
	// ErrNotFound is returned by ReadProfile for a missing document
	ErrNotFound = errors.New("identity: profile not found")
)

// Directory is the narrow client interface over the hosted
// identity/document service. Each call is a single network round trip.
type Directory interface {
	// CreateIdentity registers email/password and returns the assigned id
	CreateIdentity(ctx context.Context, email, password string) (string, error)

	// WriteProfile stores the user document keyed by identity id
	WriteProfile(ctx context.Context, id string, u user.User) error

	// Authenticate verifies credentials and returns the identity id
	Authenticate(ctx context.Context, email, password string) (string, error)

	// ReadProfile fetches the user document for an identity id
	ReadProfile(ctx context.Context, id string) (*user.User, error)

	// ClearSession invalidates the hosted service's session state
	ClearSession(ctx context.Context) error
}
