// Package cleanup purges course history that is past its retention window.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
)

// Cutoff returns the oldest timestamp that survives a run started at now.
func (r *Runner) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -r.config.KeepDays)
}

// Run deletes delivered personal reminders and announcements older than the
// retention window. Both purges are attempted even if one fails.
func (r *Runner) Run(ctx context.Context, log *logger.Logger) (Stats, error) {
	if r.config.KeepDays < 1 {
		return Stats{}, fmt.Errorf("cleanup: keep days must be >= 1, got %d", r.config.KeepDays)
	}

	startTime := time.Now()
	now := r.now()
	cutoff := r.Cutoff(now)
	stats := Stats{}
	var errs []error

	if r.reminders != nil {
		n, err := r.reminders.PurgeSent(ctx, cutoff)
		if err != nil {
			errs = append(errs, err)
		}
		stats.RemindersDeleted = n
	}
	if r.announcements != nil {
		n, err := r.announcements.PurgeBefore(ctx, cutoff)
		if err != nil {
			errs = append(errs, err)
		}
		stats.AnnouncementsDeleted = n
	}
	stats.Duration = time.Since(startTime)

	if log != nil {
		log.Debug("history cleanup finished",
			logger.Field{Key: "cutoff", Value: cutoff.Format(time.RFC3339)},
			logger.Field{Key: "reminders", Value: stats.RemindersDeleted},
			logger.Field{Key: "announcements", Value: stats.AnnouncementsDeleted})
	}

	r.mu.Lock()
	r.stats = stats
	r.lastRun = now
	r.mu.Unlock()

	return stats, errors.Join(errs...)
}

// GetStats returns the statistics from the last cleanup run.
func (r *Runner) GetStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// GetLastRun returns the time of the last cleanup run.
func (r *Runner) GetLastRun() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun
}
