// Package cron provides a cron scheduler for scheduled task execution.
// It uses robfig/cron/v3 for both recurring jobs (cron expressions) and
// one-shot timers. Job functions are handed to the worker pool when one is
// configured and run on the cron goroutine otherwise.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/robfig/cron/v3"
)

// stopTimeout bounds how long Stop waits for running jobs.
const stopTimeout = 10 * time.Second

const (
	stateArmed int32 = iota
	stateFired
	stateCancelled
)

// Scheduler manages cron job scheduling and execution
type Scheduler struct {
	cron       *cron.Cron
	logger     *logger.Logger
	workerPool WorkerPool  // Worker pool for async task execution
	parser     cron.Parser // Parser for validating cron expressions
	location   *time.Location
	ctx        context.Context
	cancel     context.CancelFunc
	started    bool
	mu         sync.RWMutex
	seq        atomic.Uint64

	// Job registry for tracking jobs by ID
	jobs        map[string]Job
	jobEntryIDs map[string]cron.EntryID // Job.ID -> cron.EntryID
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the time zone used for cron expressions and Now.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithWorkerPool makes jobs run on pool instead of the cron goroutine.
func WithWorkerPool(pool WorkerPool) Option {
	return func(s *Scheduler) {
		s.workerPool = pool
	}
}

// NewScheduler creates a new cron scheduler instance
func NewScheduler(log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:      log,
		location:    time.Local,
		parser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		jobs:        make(map[string]Job),
		jobEntryIDs: make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	adapter := cronLogger{log: log}
	s.cron = cron.New(
		cron.WithLocation(s.location),
		cron.WithParser(s.parser),
		cron.WithLogger(adapter),
		cron.WithChain(cron.Recover(adapter)),
	)
	return s
}

// Start starts the cron scheduler. Jobs added before Start are kept and begin
// running once it is called. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		logger.Field{Key: "location", Value: s.location.String()},
		logger.Field{Key: "jobs", Value: len(s.jobs)})

	go func(done <-chan struct{}) {
		<-done
		_ = s.Stop()
	}(s.ctx.Done())

	return nil
}

// Stop stops the cron scheduler gracefully
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler not started")
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("cron scheduler stop timed out, jobs still running")
	}
	s.logger.Info("cron scheduler stopped")
	return nil
}

// IsStarted returns true if the scheduler is started
func (s *Scheduler) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Now returns the current time in the scheduler's location.
func (s *Scheduler) Now() time.Time {
	return time.Now().In(s.location)
}

// Location returns the scheduler's time zone.
func (s *Scheduler) Location() *time.Location {
	return s.location
}

// Schedule runs fn once at the given instant. A time that is not in the
// future runs fn right away. The returned cancel func reports whether it
// prevented the run; it returns false once fn has started or was already
// cancelled.
func (s *Scheduler) Schedule(at time.Time, fn func()) (cancel func() bool) {
	id := fmt.Sprintf("oneshot_%d", s.seq.Add(1))

	var state atomic.Int32
	run := func() {
		if !state.CompareAndSwap(stateArmed, stateFired) {
			return
		}
		s.unregister(id)
		s.executeJob(id, fn)
	}

	cancel = func() bool {
		if !state.CompareAndSwap(stateArmed, stateCancelled) {
			return false
		}
		s.unregister(id)
		return true
	}

	if !at.After(s.Now()) {
		s.logger.Debug("oneshot job is due, running immediately",
			logger.Field{Key: "job_id", Value: id},
			logger.Field{Key: "execute_at", Value: at})
		go run()
		return cancel
	}

	s.mu.Lock()
	entryID := s.cron.Schedule(onceSchedule{at: at}, cron.FuncJob(run))
	s.jobs[id] = Job{ID: id, Type: JobTypeOneshot, ExecuteAt: &at, Next: at}
	s.jobEntryIDs[id] = entryID
	s.mu.Unlock()

	return cancel
}

// AddRecurring registers fn under name with a standard five-field cron
// expression or a descriptor such as "@hourly".
func (s *Scheduler) AddRecurring(name, spec string, fn func()) error {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already exists: %s", name)
	}

	entryID := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.executeJob(name, fn)
	}))
	s.jobs[name] = Job{ID: name, Type: JobTypeRecurring, Schedule: spec}
	s.jobEntryIDs[name] = entryID

	s.logger.Info("cron job added",
		logger.Field{Key: "job_id", Value: name},
		logger.Field{Key: "schedule", Value: spec},
		logger.Field{Key: "entry_id", Value: entryID})
	return nil
}

// RemoveJob removes a recurring job. One-shot jobs are removed through the
// cancel func returned by Schedule.
func (s *Scheduler) RemoveJob(jobID string) error {
	s.mu.RLock()
	job, exists := s.jobs[jobID]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if job.Type == JobTypeOneshot {
		return fmt.Errorf("oneshot job %s must be cancelled by its owner", jobID)
	}

	s.unregister(jobID)
	s.logger.Info("cron job removed", logger.Field{Key: "job_id", Value: jobID})
	return nil
}

// ListJobs returns all scheduled jobs ordered by their next run.
func (s *Scheduler) ListJobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for id, job := range s.jobs {
		if job.Type == JobTypeRecurring {
			if entry := s.cron.Entry(s.jobEntryIDs[id]); entry.Valid() {
				job.Next = entry.Next
			}
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Next.Equal(jobs[j].Next) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].Next.Before(jobs[j].Next)
	})
	return jobs
}

func (s *Scheduler) unregister(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.jobEntryIDs[jobID]; ok {
		s.cron.Remove(entryID)
		delete(s.jobEntryIDs, jobID)
	}
	delete(s.jobs, jobID)
}

func (s *Scheduler) context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}
