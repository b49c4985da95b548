package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName identifies the browser session
const CookieName = "sid"

// Manager owns all live sessions. Process-local, initialized empty at
// start; the external auth service is the source of truth for
// re-establishing a session after a restart.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	secure   bool
}

// NewManager creates an empty session manager
func NewManager(secure bool) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		secure:   secure,
	}
}

// Ensure returns the session identified by the request's cookie,
// creating one (and setting the cookie) when absent
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		m.mu.RLock()
		s, ok := m.sessions[cookie.Value]
		m.mu.RUnlock()
		if ok {
			s.touch(time.Now())
			return s
		}
	}

	s := &Session{ID: uuid.New().String()}
	s.touch(time.Now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// Get returns the session for the request without creating one
func (m *Manager) Get(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[cookie.Value]
	return s, ok
}

// FromRequest returns the session for the request, preferring one
// attached to the context by middleware over the cookie lookup
func (m *Manager) FromRequest(r *http.Request) (*Session, bool) {
	if s, ok := FromContext(r.Context()); ok {
		return s, true
	}
	return m.Get(r)
}

// Sweep drops sessions idle for longer than maxIdle and returns how
// many were removed
func (m *Manager) Sweep(maxIdle time.Duration) int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > maxIdle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
