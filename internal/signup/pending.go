package signup

import (
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
)

// PendingSignup bridges the redirect to the external payment page and
// back: credentials captured at plan selection, held only until the
// return navigation consumes them or they expire.
type PendingSignup struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Plan      plan.Tier `json:"plan"`
	Timestamp time.Time `json:"timestamp"`
}

// Expired reports whether the record is older than ttl at now
func (p PendingSignup) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.Timestamp) > ttl
}
