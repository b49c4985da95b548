package services

import (
	"context"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/usage"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
)

// UsageService records tool actions in the local usage-event log
type UsageService struct {
	repo   usage.Repository
	logger *logger.Logger
}

// NewUsageService creates a new usage service
func NewUsageService(repo usage.Repository, log *logger.Logger) *UsageService {
	return &UsageService{
		repo:   repo,
		logger: log,
	}
}

// Track appends a usage event for the user
func (s *UsageService) Track(ctx context.Context, userID, action string) (*usage.Event, error) {
	e := &usage.Event{
		UserID: userID,
		Action: action,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to record usage event")
		return nil, err
	}

	metrics.RecordUsageEvent(action)
	return e, nil
}

// MonthlyCount counts the user's events since the start of the current
// calendar month
func (s *UsageService) MonthlyCount(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.repo.CountForUserSince(ctx, userID, monthStart)
}

// Recent retrieves the user's most recent events
func (s *UsageService) Recent(ctx context.Context, userID string, limit int) ([]*usage.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

// Prune removes events older than retention and returns how many were
// deleted
func (s *UsageService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to prune usage events")
		return 0, err
	}

	if deleted > 0 {
		s.logger.WithFields(map[string]interface{}{
			"deleted": deleted,
		}).Info("Pruned old usage events")
	}
	return deleted, nil
}
