package app

import (
	"context"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/app/builders"
	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/commands"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/metrics"
	"github.com/aatumaykin/coursebot/internal/ratelimit"
	"github.com/aatumaykin/coursebot/internal/version"
)

// Initialize initializes all application components.
// It opens the database, starts the worker pool and cron scheduler, wires
// reminders and command handling, connects to Telegram and arms reminders.
func (a *App) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return fmt.Errorf("application already initialized")
	}

	// 1. Create application context
	a.ctx, a.cancel = context.WithCancel(ctx)

	loc, err := a.config.Course.Location()
	if err != nil {
		return err
	}

	// 2. Storage and worker pool
	storageBuilder := builders.NewStorageBuilder(a.config, a.logger)
	a.store, err = storageBuilder.Build()
	if err != nil {
		return err
	}
	a.workerPool = storageBuilder.BuildWorkerPool()

	// 3. Metrics and rate limiting
	a.metrics = metrics.New()
	a.metrics.RegisterPool(a.workerPool)
	a.limiter = ratelimit.New(a.config.RateLimit.PerMinute, a.config.RateLimit.PerHour)

	// 4. Cron scheduler, the clock for every reminder
	cronBuilder := builders.NewCronBuilder(a.config, a.logger, a.workerPool)
	a.cronScheduler = cronBuilder.Build(loc)

	// 5. Telegram connector and reminders
	a.telegram = builders.NewTelegramBuilder(a.config, a.logger, a.telegramOpts...).Build()
	a.reminders = builders.NewRemindersBuilder(a.config, a.logger, a.metrics).
		Build(a.cronScheduler, a.store, a.telegram, loc)
	if a.config.Reminders.Disabled {
		a.logger.Warn("lesson reminders are disabled")
		a.reminders.Scheduler.Shutdown()
	}

	// 6. Command handler
	a.commandHandler = commands.NewHandler(commands.Deps{
		Config:    a.config,
		Store:     a.store,
		Responder: a.telegram,
		Lessons:   a.reminders.Scheduler,
		Personal:  a.reminders.Personal,
		Notifier:  a.reminders.Dispatcher,
		Tasks:     a.workerPool,
		Limiter:   a.limiter,
		Metrics:   a.metrics,
		FAQ:       faqItems(a.config.FAQ),
		Location:  loc,
		Now:       a.cronScheduler.Now,
		Logger:    a.logger.With(logger.Field{Key: "component", Value: "commands"}),
	})
	a.telegram.SetHandler(a.commandHandler)

	if err := a.telegram.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start telegram connector: %w", err)
	}

	// 7. Recurring jobs and reminders
	var syncer builders.LessonSyncer
	if !a.config.Reminders.Disabled {
		syncer = a.reminders.Scheduler
	}
	housekeeping := builders.Housekeeping{
		Lessons: syncer,
		Limiter: a.limiter,
		Cleanup: cronBuilder.BuildCleanup(a.store, a.cronScheduler.Now),
	}
	if err := cronBuilder.Start(a.ctx, a.cronScheduler, housekeeping); err != nil {
		return err
	}

	armed := 0
	if syncer != nil {
		if armed, err = a.reminders.Scheduler.ScheduleAll(a.ctx); err != nil {
			// The resync job retries on its schedule.
			a.logger.Error("failed to schedule lesson reminders", err)
		} else {
			a.logger.Info("lesson reminders scheduled", logger.Field{Key: "jobs", Value: armed})
		}
	}
	if n, err := a.reminders.Personal.LoadPending(a.ctx); err != nil {
		a.logger.Error("failed to load personal reminders", err)
	} else {
		a.logger.Info("personal reminders loaded", logger.Field{Key: "count", Value: n})
	}

	// 8. Metrics endpoint
	if a.config.Metrics.Enabled {
		a.metricsServer = metrics.NewServer(a.config.Metrics.ListenAddr, a.metrics, a.store.DB.Ping, a.logger)
		if err := a.metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	a.started = true
	a.announceStartup(armed)
	return nil
}

// announceStartup tells the admin chat the bot is up.
func (a *App) announceStartup(armed int) {
	chatID := a.config.Telegram.AdminChatID
	if chatID == 0 {
		return
	}
	err := a.telegram.SendToChat(a.ctx, chatID, version.FormatStartupMessage(armed), channels.SendOptions{Markdown: true})
	if err != nil {
		a.logger.Warn("failed to send startup message",
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "error", Value: err.Error()})
	}
}

func faqItems(entries []config.FAQEntry) []messages.FAQItem {
	items := make([]messages.FAQItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, messages.FAQItem{Question: e.Question, Answer: e.Answer})
	}
	return messages.ResolveFAQ(items)
}
