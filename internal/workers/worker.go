package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
)

// worker processes tasks until the queue is closed and drained.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", logger.Field{Key: "worker_id", Value: id})

	for task := range p.taskQueue {
		p.processTask(id, task)
	}

	p.logger.Debug("worker stopping", logger.Field{Key: "worker_id", Value: id})
}

// processTask handles a single task execution with metrics and error handling.
func (p *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()

	ctx := p.ctx
	if task.Context != nil {
		ctx = task.Context
	}
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	err := p.execute(ctx, task)
	result := Result{TaskID: task.ID, Type: task.Type, Error: err, Duration: time.Since(start)}

	if err != nil {
		p.incrementFailed()
		p.logger.ErrorCtx(ctx, "task failed", err,
			logger.Field{Key: "worker_id", Value: workerID},
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "task_type", Value: task.Type})
	} else {
		p.incrementCompleted()
	}
	p.recordDuration(result.Duration)

	p.mu.RLock()
	onResult := p.onResult
	p.mu.RUnlock()
	if onResult != nil {
		onResult(result)
	}

	p.logger.DebugCtx(ctx, "task processed",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "duration_ms", Value: result.Duration.Milliseconds()})
}

// execute runs the task, converting a panic into an error.
func (p *WorkerPool) execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during task execution: %v", r)
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return task.Run(ctx)
}
