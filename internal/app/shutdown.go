package app

import (
	"context"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
)

const metricsShutdownTimeout = 5 * time.Second

// Shutdown performs graceful shutdown of all components.
// It stops the application in the following order:
//  1. Cancels the application context
//  2. Stops the Telegram connector (no new commands)
//  3. Stops the cron scheduler
//  4. Cancels armed reminders
//  5. Drains the worker pool
//  6. Stops the metrics server
//  7. Closes the database
//
// Components are released even when Initialize failed halfway. The method
// is thread-safe and calling it twice is a no-op.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}

	if a.telegram != nil {
		if err := a.telegram.Stop(); err != nil {
			a.logger.Error("failed to stop telegram connector", err)
		}
		a.telegram = nil
	}

	if a.cronScheduler != nil {
		// A cancelled parent context stops the scheduler on its own.
		if a.cronScheduler.IsStarted() {
			if err := a.cronScheduler.Stop(); err != nil {
				a.logger.Warn("failed to stop cron scheduler", logger.Field{Key: "error", Value: err.Error()})
			}
		}
		a.cronScheduler = nil
	}

	if a.reminders != nil {
		a.reminders.Shutdown()
		a.reminders = nil
	}

	if a.workerPool != nil {
		a.workerPool.Stop()
		a.workerPool = nil
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop metrics server", err)
		}
		cancel()
		a.metricsServer = nil
	}

	var dbErr error
	if a.store != nil {
		if dbErr = a.store.Close(); dbErr != nil {
			a.logger.Error("failed to close database", dbErr)
		}
		a.store = nil
	}

	if a.started {
		a.logger.Info("application shutdown complete")
	}
	a.started = false
	return dbErr
}
