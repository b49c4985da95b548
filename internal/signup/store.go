package signup

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
)

// CookieName is the single key holding the serialized pending signup
const CookieName = "pending_signup"

// DefaultTTL bounds how long a stored record stays readable
const DefaultTTL = time.Hour

// Store keeps the pending signup in an HttpOnly browser-session cookie:
// client-local, one record, gone when the browser session ends. A
// malformed or stale cookie reads as absent, never as an error.
type Store struct {
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore creates a pending-signup store. secure controls the cookie's
// Secure attribute and should be true outside development.
func NewStore(ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, secure: secure, now: time.Now}
}

// WithClock overrides the store's clock. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put writes a pending signup with the current timestamp, overwriting
// any prior record
func (s *Store) Put(w http.ResponseWriter, email, password string, tier plan.Tier) {
	rec := PendingSignup{
		Email:     email,
		Password:  password,
		Plan:      tier,
		Timestamp: s.now(),
	}

	// Marshal of a plain struct cannot fail
	payload, _ := json.Marshal(rec)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		// No MaxAge: a session cookie, cleared with the browser session
	})
}

// Get returns the stored pending signup if present and fresh. Expired
// or malformed records are deleted and reported absent.
func (s *Store) Get(w http.ResponseWriter, r *http.Request) (PendingSignup, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return PendingSignup{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		s.Clear(w)
		metrics.RecordPendingExpired()
		return PendingSignup{}, false
	}

	var rec PendingSignup
	if err := json.Unmarshal(payload, &rec); err != nil {
		s.Clear(w)
		metrics.RecordPendingExpired()
		return PendingSignup{}, false
	}

	if rec.Expired(s.now(), s.ttl) {
		s.Clear(w)
		metrics.RecordPendingExpired()
		return PendingSignup{}, false
	}

	return rec, true
}

// Clear deletes the record unconditionally
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
