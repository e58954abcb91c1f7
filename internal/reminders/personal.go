package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
)

// staleAfter is how long past its time an undelivered personal reminder is
// still worth sending after a restart.
const staleAfter = 24 * time.Hour

// PersonalStore persists personal reminder delivery state.
type PersonalStore interface {
	ListPending(ctx context.Context) ([]domain.CustomReminder, error)
	MarkSent(ctx context.Context, id int64) error
}

// PersonalReminders delivers /addreminder reminders to their owners
// constants.CustomReminderLead before the requested time.
type PersonalReminders struct {
	clock    Clock
	store    PersonalStore
	sender   channels.Sender
	location *time.Location
	logger   *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	jobs   map[int64]*personalJob
	closed bool
}

type personalJob struct {
	reminder domain.CustomReminder
	cancel   func() bool // nil until the timer is armed
}

func (j *personalJob) stop() {
	if j.cancel != nil {
		j.cancel()
	}
}

// NewPersonalReminders creates the personal reminder registry. loc is the
// timezone reminder times are written in and defaults to UTC.
func NewPersonalReminders(clock Clock, store PersonalStore, sender channels.Sender, loc *time.Location, log *logger.Logger) *PersonalReminders {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PersonalReminders{
		clock:    clock,
		store:    store,
		sender:   sender,
		location: loc,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[int64]*personalJob),
	}
}

// LoadPending arms every undelivered reminder from storage. Reminders that are
// long overdue are marked sent without delivery.
func (p *PersonalReminders) LoadPending(ctx context.Context) (int, error) {
	pending, err := p.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load personal reminders: %w", err)
	}

	armed := 0
	for _, r := range pending {
		at, err := r.At(p.location)
		if err != nil {
			p.logger.Warn("skipping malformed personal reminder",
				logger.Field{Key: "reminder_id", Value: r.ID},
				logger.Field{Key: "remind_at", Value: r.RemindAt})
			continue
		}
		if p.clock.Now().Sub(at) > staleAfter {
			if err := p.store.MarkSent(ctx, r.ID); err != nil {
				p.logger.Error("failed to retire stale reminder", err,
					logger.Field{Key: "reminder_id", Value: r.ID})
			}
			continue
		}
		if err := p.Arm(r); err != nil {
			return armed, err
		}
		armed++
	}
	return armed, nil
}

// Arm schedules r for delivery. A reminder whose delivery time has already
// passed is sent right away.
func (p *PersonalReminders) Arm(r domain.CustomReminder) error {
	at, err := r.At(p.location)
	if err != nil {
		return fmt.Errorf("invalid reminder time %q: %w", r.RemindAt, err)
	}
	fireAt := at.Add(-constants.CustomReminderLead)
	if now := p.clock.Now(); fireAt.Before(now) {
		fireAt = now
	}

	j := &personalJob{reminder: r}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrSchedulerClosed
	}
	if old, ok := p.jobs[r.ID]; ok {
		old.stop()
	}
	p.jobs[r.ID] = j
	p.mu.Unlock()

	cancel := p.clock.Schedule(fireAt, func() { p.deliver(j) })

	p.mu.Lock()
	j.cancel = cancel
	if p.jobs[r.ID] != j {
		cancel()
	}
	p.mu.Unlock()
	return nil
}

// Cancel stops a pending reminder. It reports whether one was armed.
func (p *PersonalReminders) Cancel(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	j, ok := p.jobs[id]
	if !ok {
		return false
	}
	delete(p.jobs, id)
	j.stop()
	return true
}

// Pending returns the number of armed personal reminders.
func (p *PersonalReminders) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

// Shutdown cancels all armed reminders. Later Arm calls fail.
func (p *PersonalReminders) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, j := range p.jobs {
		j.stop()
		delete(p.jobs, id)
	}
	p.cancel()
}

func (p *PersonalReminders) deliver(j *personalJob) {
	r := j.reminder
	p.mu.Lock()
	if p.closed || p.jobs[r.ID] != j {
		p.mu.Unlock()
		return
	}
	delete(p.jobs, r.ID)
	p.mu.Unlock()

	if err := p.sender.SendToChat(p.ctx, r.UserID, messages.FormatCustomReminder(r), channels.ReminderSendOptions); err != nil {
		p.logger.Error("failed to deliver personal reminder", err,
			logger.Field{Key: "reminder_id", Value: r.ID},
			logger.Field{Key: "user_id", Value: r.UserID})
		return
	}
	if err := p.store.MarkSent(p.ctx, r.ID); err != nil {
		p.logger.Error("failed to mark personal reminder sent", err,
			logger.Field{Key: "reminder_id", Value: r.ID})
	}
}
