package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/user"
)

// ErrNoUser is returned by UpdateUser when the session has no cached
// user to update.
var ErrNoUser = errors.New("no user in session")

// Session holds the per-browser-session state consumed by the API
// surface: the cached current user and the last error message. The
// authoritative user record lives in the external store; this is only
// a cache with a defined lifecycle (created empty, never persisted).
type Session struct {
	ID string

	mu        sync.Mutex
	user      *user.User
	lastError string
	lastSeen  time.Time
}

// User returns the cached current user, or nil when signed out
func (s *Session) User() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser replaces the cached user and clears the last error
func (s *Session) SetUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.lastError = ""
}

// UpdateUser applies fn to the cached user while holding the session
// lock, so a check-and-modify sequence cannot interleave with another
// request on the same session. fn must not retain the pointer past its
// return.
func (s *Session) UpdateUser(fn func(*user.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNoUser
	}
	return fn(s.user)
}

// LastError returns the last recorded error message, empty if none
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SetError records an error message for form-level display
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// Reset clears the user and error unconditionally
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.lastError = ""
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
