// Package retry provides a retry loop with exponential backoff for transient
// Telegram and network failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Config represents retry configuration.
type Config struct {
	MaxAttempts    int                  // Maximum number of attempts (default: 3)
	InitialBackoff time.Duration        // Initial backoff duration (default: 1s)
	MaxBackoff     time.Duration        // Maximum backoff duration (default: 10s)
	Retryable      func(err error) bool // Classifier; IsRetryable when nil
	Operation      string               // Name used in log records
	Logger         *logger.Logger       // Optional
}

// retryableError is implemented by errors that know whether they are transient.
type retryableError interface {
	IsRetryable() bool
}

// delayedError is implemented by errors that carry a server-requested delay.
type delayedError interface {
	RetryAfter() time.Duration
}

// Do executes fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialDelay
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxDelay
	}
	if cfg.Retryable == nil {
		cfg.Retryable = IsRetryable
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				cfg.Logger.Info("retry succeeded",
					logger.Field{Key: "operation", Value: cfg.Operation},
					logger.Field{Key: "attempt", Value: attempt + 1})
			}
			return nil
		}
		lastErr = err

		if !cfg.Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		backoff := calculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)
		var delayed delayedError
		if errors.As(err, &delayed) && delayed.RetryAfter() > backoff {
			backoff = delayed.RetryAfter()
		}

		cfg.Logger.Warn("retryable error, backing off",
			logger.Field{Key: "operation", Value: cfg.Operation},
			logger.Field{Key: "attempt", Value: attempt + 1},
			logger.Field{Key: "backoff", Value: backoff.String()},
			logger.Field{Key: "error", Value: err.Error()})

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether err looks transient. Errors implementing
// IsRetryable() decide for themselves; otherwise the message is inspected.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var re retryableError
	if errors.As(err, &re) {
		return re.IsRetryable()
	}

	msg := strings.ToLower(err.Error())

	for _, pattern := range []string{"401", "403", "400", "404", "unauthorized", "forbidden", "not found"} {
		if strings.Contains(msg, pattern) {
			return false
		}
	}

	for _, pattern := range []string{
		"deadline exceeded",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"eof",
		"429",
		"too many requests",
		"rate limit",
		"500", "502", "503", "504",
		"network",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}

// calculateBackoff returns 2^attempt * initial, capped at max.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * initial
	if backoff > max || backoff <= 0 {
		return max
	}
	return backoff
}
