// Package workers provides a bounded worker pool for background work: reminder
// fires and long fan-out commands run here so they never block update handling.
package workers

import (
	"context"
	"errors"
	"time"
)

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = errors.New("worker pool stopped")

// Task types used across the bot.
const (
	TaskTypeReminder  = "reminder"
	TaskTypeBroadcast = "broadcast"
	TaskTypeCron      = "cron"
)

// Task represents a unit of work to be executed by a worker.
type Task struct {
	ID      string                          // Unique task identifier
	Type    string                          // Task type, used for logs and metrics
	Run     func(ctx context.Context) error // Work to execute
	Context context.Context                 // Optional task context; pool context otherwise
	Timeout time.Duration                   // Optional execution timeout
}

// Result represents the outcome of a task execution.
type Result struct {
	TaskID   string
	Type     string
	Error    error
	Duration time.Duration
}

// PoolMetrics tracks execution metrics for the worker pool.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TotalDuration  time.Duration
}

const (
	DefaultPoolSize  = 4
	DefaultQueueSize = 100
)
