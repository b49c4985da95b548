package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
)

// EventRetention is how long usage events stay in the local log
const EventRetention = 90 * 24 * time.Hour

// SessionMaxIdle is how long an untouched session survives
const SessionMaxIdle = 24 * time.Hour

// Janitor runs the periodic housekeeping jobs: pruning the usage-event
// log and sweeping idle sessions.
type Janitor struct {
	usage    *services.UsageService
	sessions *session.Manager
	logger   *logger.Logger
	cron     *cron.Cron
}

// NewJanitor creates the housekeeping worker
func NewJanitor(usage *services.UsageService, sessions *session.Manager, log *logger.Logger) *Janitor {
	return &Janitor{
		usage:    usage,
		sessions: sessions,
		logger:   log,
		cron:     cron.New(),
	}
}

// Start registers and starts the cron schedule
func (j *Janitor) Start() error {
	// Nightly usage-event prune
	if _, err := j.cron.AddFunc("0 3 * * *", j.pruneEvents); err != nil {
		return err
	}

	// Hourly idle-session sweep
	if _, err := j.cron.AddFunc("@hourly", j.sweepSessions); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Housekeeping worker started")
	return nil
}

// Stop stops the schedule and waits for running jobs
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("Housekeeping worker stopped")
}

func (j *Janitor) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := j.usage.Prune(ctx, EventRetention); err != nil {
		j.logger.ErrorWithErr(err, "Usage-event prune failed")
	}
}

func (j *Janitor) sweepSessions() {
	removed := j.sessions.Sweep(SessionMaxIdle)
	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
		}).Info("Swept idle sessions")
	}
}
