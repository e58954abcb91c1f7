package builders

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/cleanup"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/cron"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/ratelimit"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// Recurring job names.
const (
	JobResyncLessons  = "resync-lessons"
	JobSweepRateLimit = "sweep-rate-limits"
	JobPurgeHistory   = "purge-history"
)

const (
	sweepSchedule = "*/30 * * * *"
	sweepIdle     = 2 * time.Hour
)

// LessonSyncer re-arms lesson reminders from the current lesson list.
type LessonSyncer interface {
	ScheduleAll(ctx context.Context) (int, error)
}

// Housekeeping lists the components the recurring jobs act on. Nil fields
// skip their job.
type Housekeeping struct {
	Lessons LessonSyncer
	Limiter *ratelimit.Limiter
	Cleanup *cleanup.Runner
}

type CronBuilder struct {
	config     *config.Config
	logger     *logger.Logger
	workerPool *workers.WorkerPool
}

func NewCronBuilder(cfg *config.Config, log *logger.Logger, wp *workers.WorkerPool) *CronBuilder {
	return &CronBuilder{
		config:     cfg,
		logger:     log,
		workerPool: wp,
	}
}

// Build creates the scheduler in the course timezone. Jobs run on the worker
// pool when one is set.
func (b *CronBuilder) Build(loc *time.Location) *cron.Scheduler {
	opts := []cron.Option{cron.WithLocation(loc)}
	if b.workerPool != nil {
		opts = append(opts, cron.WithWorkerPool(b.workerPool))
	}
	return cron.NewScheduler(b.logger, opts...)
}

// Start starts the scheduler and registers the recurring housekeeping jobs.
func (b *CronBuilder) Start(ctx context.Context, scheduler *cron.Scheduler, jobs Housekeeping) error {
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cron scheduler: %w", err)
	}
	b.logger.Info("cron scheduler started")

	if lessons := jobs.Lessons; lessons != nil {
		err := scheduler.AddRecurring(JobResyncLessons, b.config.Reminders.ResyncSchedule, func() {
			n, err := lessons.ScheduleAll(ctx)
			if err != nil {
				b.logger.Error("failed to resync lesson reminders", err)
				return
			}
			b.logger.Info("lesson reminders resynced", logger.Field{Key: "jobs", Value: n})
		})
		if err != nil {
			return fmt.Errorf("failed to add resync job: %w", err)
		}
	}

	if limiter := jobs.Limiter; limiter != nil {
		err := scheduler.AddRecurring(JobSweepRateLimit, sweepSchedule, func() {
			if n := limiter.Sweep(sweepIdle); n > 0 {
				b.logger.Debug("idle rate limit buckets dropped", logger.Field{Key: "count", Value: n})
			}
		})
		if err != nil {
			return fmt.Errorf("failed to add rate limit sweep job: %w", err)
		}
	}

	if runner := jobs.Cleanup; runner != nil {
		err := scheduler.AddRecurring(JobPurgeHistory, b.config.Retention.Schedule, func() {
			stats, err := runner.Run(ctx, b.logger)
			if err != nil {
				b.logger.Error("history cleanup failed", err)
			}
			if stats.Total() > 0 {
				b.logger.Info("old history purged",
					logger.Field{Key: "reminders", Value: stats.RemindersDeleted},
					logger.Field{Key: "announcements", Value: stats.AnnouncementsDeleted},
					logger.Field{Key: "duration", Value: stats.Duration.String()})
			}
		})
		if err != nil {
			return fmt.Errorf("failed to add history cleanup job: %w", err)
		}
	}
	return nil
}

// BuildCleanup returns the history cleanup runner, or nil when retention is
// disabled.
func (b *CronBuilder) BuildCleanup(store *storage.Store, now func() time.Time) *cleanup.Runner {
	if b.config.Retention.Disabled {
		return nil
	}
	return cleanup.NewRunner(cleanup.Config{KeepDays: b.config.Retention.KeepDays},
		store.CustomReminders, store.Announcements, now)
}
