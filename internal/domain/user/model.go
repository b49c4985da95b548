package user

import (
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
)

// User represents a user in the system. The authoritative copy lives in
// the external identity/document store; the id is assigned there at
// creation and never changes.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Plan           plan.Tier `json:"plan"`
	UsageThisMonth int       `json:"usageThisMonth"`
	LastUsageReset time.Time `json:"lastUsageReset"`
}

// CanPerformAction reports whether the user is under the monthly usage
// limit of their plan
func (u *User) CanPerformAction() bool {
	limit := plan.Limit(u.Plan)
	if limit == plan.Unlimited {
		return true
	}
	return u.UsageThisMonth < limit
}

// NeedsUsageReset reports whether LastUsageReset falls in an earlier
// calendar month than now
func (u *User) NeedsUsageReset(now time.Time) bool {
	reset := u.LastUsageReset
	return reset.Year() < now.Year() ||
		(reset.Year() == now.Year() && reset.Month() < now.Month())
}
