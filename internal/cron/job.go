// Package cron provides types and helper functions for cron jobs.
package cron

import (
	"context"
	"time"

	"github.com/aatumaykin/coursebot/internal/workers"
)

// JobType represents the type of a cron job
type JobType string

const (
	// JobTypeRecurring is a repeating job that runs on a schedule
	JobTypeRecurring JobType = "recurring"
	// JobTypeOneshot is a one-time job that runs once at the specified time
	JobTypeOneshot JobType = "oneshot"
)

// WorkerPool is an interface for worker pool operations
type WorkerPool interface {
	Submit(task workers.Task) error
}

// Job describes a registered entry.
type Job struct {
	ID        string     `json:"id"`                   // Unique job identifier
	Type      JobType    `json:"type"`                 // Job type: recurring or oneshot
	Schedule  string     `json:"schedule,omitempty"`   // Cron expression for recurring jobs
	ExecuteAt *time.Time `json:"execute_at,omitempty"` // Execution time for oneshot jobs
	Next      time.Time  `json:"next"`                 // Next planned run
}

// onceSchedule fires a single time at a fixed instant. After that Next returns
// the zero time, which robfig treats as "never again".
type onceSchedule struct {
	at time.Time
}

func (o onceSchedule) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}

// taskContext carries the job id into worker logs.
type taskContextKey struct{}

func withJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskContextKey{}, id)
}

// JobIDFromContext returns the cron job id of a running task, if any.
func JobIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(taskContextKey{}).(string)
	return id, ok
}
