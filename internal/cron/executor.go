// Package cron provides job execution logic for cron scheduler.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// executeJob runs fn on the worker pool, or inline when there is none.
func (s *Scheduler) executeJob(jobID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cron job panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job_id", Value: jobID})
		}
	}()

	if s.workerPool == nil {
		fn()
		return
	}

	taskID := fmt.Sprintf("cron_%s_%d", jobID, time.Now().UnixNano())
	task := workers.Task{
		ID:   taskID,
		Type: workers.TaskTypeCron,
		Run: func(context.Context) error {
			fn()
			return nil
		},
		Context: withJobID(s.context(), jobID),
	}

	if err := s.workerPool.Submit(task); err != nil {
		s.logger.Error("failed to submit cron job to worker pool", err,
			logger.Field{Key: "job_id", Value: jobID},
			logger.Field{Key: "task_id", Value: taskID})
		return
	}

	s.logger.Debug("cron job submitted to worker pool",
		logger.Field{Key: "job_id", Value: jobID},
		logger.Field{Key: "task_id", Value: taskID})
}
