// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"sync"

	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// DirectoryCall records one CreateIdentity invocation
type DirectoryCall struct {
	Email    string
	Password string
}

// MockDirectory is a configurable identity.Directory double. Unset
// function fields fall through to permissive defaults.
type MockDirectory struct {
	mu    sync.Mutex
	calls []DirectoryCall

	CreateIdentityFn func(ctx context.Context, email, password string) (string, error)
	WriteProfileFn   func(ctx context.Context, id string, u user.User) error
	AuthenticateFn   func(ctx context.Context, email, password string) (string, error)
	ReadProfileFn    func(ctx context.Context, id string) (*user.User, error)
	ClearSessionFn   func(ctx context.Context) error
}

func (d *MockDirectory) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	d.mu.Lock()
	d.calls = append(d.calls, DirectoryCall{Email: email, Password: password})
	d.mu.Unlock()

	if d.CreateIdentityFn != nil {
		return d.CreateIdentityFn(ctx, email, password)
	}
	return "id-" + email, nil
}

func (d *MockDirectory) WriteProfile(ctx context.Context, id string, u user.User) error {
	if d.WriteProfileFn != nil {
		return d.WriteProfileFn(ctx, id, u)
	}
	return nil
}

func (d *MockDirectory) Authenticate(ctx context.Context, email, password string) (string, error) {
	if d.AuthenticateFn != nil {
		return d.AuthenticateFn(ctx, email, password)
	}
	return "id-" + email, nil
}

func (d *MockDirectory) ReadProfile(ctx context.Context, id string) (*user.User, error) {
	if d.ReadProfileFn != nil {
		return d.ReadProfileFn(ctx, id)
	}
	return &user.User{ID: id}, nil
}

func (d *MockDirectory) ClearSession(ctx context.Context) error {
	if d.ClearSessionFn != nil {
		return d.ClearSessionFn(ctx)
	}
	return nil
}

// CreateCalls returns the recorded CreateIdentity invocations
func (d *MockDirectory) CreateCalls() []DirectoryCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DirectoryCall, len(d.calls))
	copy(out, d.calls)
	return out
}
