package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/usage"
	"github.com/ezseobasics/ezseo/internal/pkg/errors"
)

// UsageRepository implements usage.Repository. Queries are written with
// ? placeholders and rewritten per driver; lib/pq only accepts the $n
// form and has no LastInsertId.
type UsageRepository struct {
	db     *sql.DB
	driver string
}

// NewUsageRepository creates a usage-event repository for the given
// driver ("sqlite" or "postgres")
func NewUsageRepository(db *sql.DB, driver string) usage.Repository {
	return &UsageRepository{db: db, driver: driver}
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres. sqlite
// takes ? natively.
func (r *UsageRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Create appends a usage event
func (r *UsageRepository) Create(ctx context.Context, e *usage.Event) error {
	now := time.Now()
	e.CreatedAt = now

	query := `
		INSERT INTO usage_events (user_id, action, created_at)
		VALUES (?, ?, ?)
	`

	if r.driver == "postgres" {
		err := r.db.QueryRowContext(ctx, r.rebind(query+" RETURNING id"),
			e.UserID, e.Action, now.Unix()).Scan(&e.ID)
		if err != nil {
			return errors.DatabaseError("Failed to record usage event", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, query, e.UserID, e.Action, now.Unix())
	if err != nil {
		return errors.DatabaseError("Failed to record usage event", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get event ID", err)
	}

	e.ID = id
	return nil
}

// CountForUserSince counts a user's events at or after since
func (r *UsageRepository) CountForUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	query := r.rebind(`
		SELECT COUNT(*) FROM usage_events
		WHERE user_id = ? AND created_at >= ?
	`)

	var count int64
	err := r.db.QueryRowContext(ctx, query, userID, since.Unix()).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count usage events", err)
	}
	return count, nil
}

// ListForUser retrieves a user's most recent events
func (r *UsageRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*usage.Event, error) {
	query := r.rebind(`
		SELECT id, user_id, action, created_at
		FROM usage_events
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list usage events", err)
	}
	defer rows.Close()

	var events []*usage.Event
	for rows.Next() {
		var e usage.Event
		var createdAt int64

		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan usage event", err)
		}

		e.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to read usage events", err)
	}

	return events, nil
}

// DeleteOlderThan removes events created before cutoff
func (r *UsageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.rebind(`DELETE FROM usage_events WHERE created_at < ?`)

	result, err := r.db.ExecContext(ctx, query, cutoff.Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to delete usage events", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to count deleted events", err)
	}
	return deleted, nil
}
