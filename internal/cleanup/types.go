package cleanup

import (
	"context"
	"sync"
	"time"
)

// Stats holds statistics about one cleanup run.
type Stats struct {
	RemindersDeleted     int64         // Delivered personal reminders removed
	AnnouncementsDeleted int64         // Announcements removed
	Duration             time.Duration // Time taken for cleanup
}

// Total returns the number of rows removed.
func (s Stats) Total() int64 {
	return s.RemindersDeleted + s.AnnouncementsDeleted
}

// Config holds configuration for cleanup operations.
type Config struct {
	KeepDays int // Rows older than this are purged
}

// ReminderPurger removes delivered personal reminders.
type ReminderPurger interface {
	PurgeSent(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnnouncementPurger removes published announcements.
type AnnouncementPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Runner purges history older than the retention window.
type Runner struct {
	config        Config
	reminders     ReminderPurger
	announcements AnnouncementPurger
	now           func() time.Time

	mu      sync.Mutex
	stats   Stats
	lastRun time.Time
}

// NewRunner creates a new cleanup runner. now defaults to time.Now.
func NewRunner(config Config, reminders ReminderPurger, announcements AnnouncementPurger, now func() time.Time) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{
		config:        config,
		reminders:     reminders,
		announcements: announcements,
		now:           now,
	}
}
