package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/aatumaykin/coursebot/internal/logger"
)

// WorkerPool manages a pool of goroutine workers for concurrent task execution.
type WorkerPool struct {
	taskQueue chan Task
	workers   int
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *logger.Logger

	mu       sync.RWMutex
	started  bool
	stopped  bool
	onResult func(Result)

	metricsMu sync.Mutex
	metrics   PoolMetrics
}

// NewPool creates a new worker pool with the specified configuration.
func NewPool(workers int, queueSize int, log *logger.Logger) *WorkerPool {
	if workers < 1 {
		workers = DefaultPoolSize
	}
	if queueSize < 0 {
		queueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		taskQueue: make(chan Task, queueSize),
		workers:   workers,
		ctx:       ctx,
		cancel:    cancel,
		logger:    log,
	}
}

// OnResult registers a callback invoked after every task. Must be set before Start.
func (p *WorkerPool) OnResult(fn func(Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onResult = fn
}

// Start initializes and starts all worker goroutines.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "queue_size", Value: cap(p.taskQueue)})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a task, blocking while the queue is full.
func (p *WorkerPool) Submit(task Task) error {
	return p.SubmitWithContext(p.ctx, task)
}

// SubmitWithContext queues a task or gives up when ctx is done.
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %s has no Run function", task.ID)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.taskQueue <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.incrementSubmitted()
	p.logger.DebugCtx(ctx, "task submitted",
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "task_type", Value: task.Type})
	return nil
}

// Stop stops accepting tasks, lets workers drain the queue and waits for them.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.taskQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()

	metrics := p.Metrics()
	p.logger.Info("worker pool stopped",
		logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
		logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
		logger.Field{Key: "tasks_failed", Value: metrics.TasksFailed})
}

// WorkerCount returns the number of workers.
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}
