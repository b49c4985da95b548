package usage

import (
	"context"
	"time"
)

// Repository defines the interface for usage-event data access
type Repository interface {
	// Create appends a usage event
	Create(ctx context.Context, e *Event) error

	// CountForUserSince counts a user's events at or after since
	CountForUserSince(ctx context.Context, userID string, since time.Time) (int64, error)

	// ListForUser retrieves a user's most recent events
	ListForUser(ctx context.Context, userID string, limit int) ([]*Event, error)

	// DeleteOlderThan removes events created before cutoff and returns
	// how many were deleted
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
