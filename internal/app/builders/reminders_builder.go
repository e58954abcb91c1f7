package builders

import (
	"time"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/metrics"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
)

// Reminders groups the reminder components sharing one clock and sender.
type Reminders struct {
	Dispatcher *reminders.Dispatcher
	Scheduler  *reminders.Scheduler
	Personal   *reminders.PersonalReminders
}

// Shutdown cancels every armed reminder.
func (r *Reminders) Shutdown() {
	r.Scheduler.Shutdown()
	r.Personal.Shutdown()
}

type RemindersBuilder struct {
	config  *config.Config
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewRemindersBuilder(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *RemindersBuilder {
	return &RemindersBuilder{
		config:  cfg,
		logger:  log,
		metrics: m,
	}
}

// Build wires the dispatcher, lesson scheduler and personal reminders.
func (b *RemindersBuilder) Build(clock reminders.Clock, store *storage.Store, sender channels.Sender, loc *time.Location) *Reminders {
	dispatcher := reminders.NewDispatcher(
		sender,
		reminders.NewRecipientResolver(store.Users),
		b.config.Telegram.GroupID,
		b.config.Reminders.SendDelay(),
		b.logger.With(logger.Field{Key: "component", Value: "dispatcher"}),
	)

	var admin channels.Sender
	if b.config.Telegram.AdminChatID != 0 {
		admin = sender
	}
	scheduler := reminders.NewScheduler(
		clock,
		reminders.NewLessonSource(store.Lessons, StaticLessons(b.config.Schedule.Lessons)),
		dispatcher,
		admin,
		reminders.SchedulerConfig{
			Location:        loc,
			AdminChatID:     b.config.Telegram.AdminChatID,
			DefaultJoinLink: b.config.Course.DefaultJoinLink,
		},
		b.logger.With(logger.Field{Key: "component", Value: "scheduler"}),
	)

	if b.metrics != nil {
		dispatcher.SetObserver(b.metrics)
		scheduler.SetObserver(b.metrics)
	}

	personal := reminders.NewPersonalReminders(clock, store.CustomReminders, sender, loc,
		b.logger.With(logger.Field{Key: "component", Value: "personal_reminders"}))

	return &Reminders{
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Personal:   personal,
	}
}

// StaticLessons converts lessons declared in the config file.
func StaticLessons(cfg []config.LessonConfig) []domain.Lesson {
	lessons := make([]domain.Lesson, 0, len(cfg))
	for _, l := range cfg {
		lessons = append(lessons, domain.Lesson{
			CourseID: l.CourseID,
			Title:    l.Title,
			Date:     l.Date,
			Time:     l.Time,
			JoinLink: l.JoinLink,
		})
	}
	return lessons
}
