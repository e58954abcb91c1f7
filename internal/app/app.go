// Package app provides the main application structure for coursebot.
// It coordinates all components including storage, the worker pool,
// the cron scheduler, lesson reminders, the Telegram connector and
// command handlers.
package app

import (
	"context"
	"sync"

	"github.com/aatumaykin/coursebot/internal/app/builders"
	"github.com/aatumaykin/coursebot/internal/channels/telegram"
	"github.com/aatumaykin/coursebot/internal/commands"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/cron"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/metrics"
	"github.com/aatumaykin/coursebot/internal/ratelimit"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// App represents the main application structure.
// It holds references to all major components and manages their lifecycle.
type App struct {
	// Configuration and core services
	config *config.Config
	logger *logger.Logger

	// Persistence
	store *storage.Store

	// Command handling
	commandHandler *commands.Handler
	limiter        *ratelimit.Limiter

	// Channels
	telegram     *telegram.Connector
	telegramOpts []telegram.Option

	// Scheduled tasks
	cronScheduler *cron.Scheduler
	reminders     *builders.Reminders

	// Background task execution
	workerPool *workers.WorkerPool

	// Observability
	metrics       *metrics.Metrics
	metricsServer *metrics.Server

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Thread-safety
	mu      sync.RWMutex
	started bool
}

// Option configures an App.
type Option func(*App)

// WithTelegramOptions passes options to the Telegram connector.
func WithTelegramOptions(opts ...telegram.Option) Option {
	return func(a *App) {
		a.telegramOpts = append(a.telegramOpts, opts...)
	}
}

// New creates a new App instance with the provided configuration and logger.
// Only initializes config and logger fields; other components are initialized
// in the Initialize() method.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *App {
	a := &App{
		config: cfg,
		logger: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until the context is cancelled.
// It performs the following steps:
//  1. Initializes all components via Initialize()
//  2. Waits for the context to be cancelled
//  3. Performs graceful shutdown via Shutdown()
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		_ = a.Shutdown()
		return err
	}

	a.logger.Info("application is running")

	<-ctx.Done()

	return a.Shutdown()
}

// IsStarted reports whether Initialize completed.
func (a *App) IsStarted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.started
}
