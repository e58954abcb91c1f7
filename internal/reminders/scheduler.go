package reminders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
)

// ErrSchedulerClosed is returned after Shutdown.
var ErrSchedulerClosed = errors.New("reminder scheduler is shut down")

// Offset is how long before a lesson a reminder fires.
type Offset struct {
	Name   string
	Before time.Duration
	Label  string
}

// LessonOffsets are the reminders armed for every lesson.
var LessonOffsets = []Offset{
	{Name: "24h", Before: 24 * time.Hour, Label: constants.MsgOffset24h},
	{Name: "1h", Before: time.Hour, Label: constants.MsgOffset1h},
}

// JobInfo describes an armed reminder.
type JobInfo struct {
	Key       string // <lesson key>_<offset name>
	LessonKey string
	Lesson    domain.Lesson
	Offset    Offset
	FireAt    time.Time
}

// Notifier delivers a rendered reminder.
type Notifier interface {
	Dispatch(ctx context.Context, message string, opts DispatchOptions) (Result, error)
}

// SchedulerConfig holds the course-level settings a Scheduler needs.
type SchedulerConfig struct {
	Location        *time.Location
	AdminChatID     int64
	DefaultJoinLink string
}

type jobState int

const (
	jobArmed jobState = iota
	jobCancelled
	jobFired
)

// job is guarded by Scheduler.mu.
type job struct {
	info   JobInfo
	cancel func() bool
	state  jobState
}

// Scheduler arms lesson reminders on a Clock and dispatches them when they fire.
// Each job fires at most once; cancelled and fired jobs leave the registry.
// A job whose timer is already due when it is replaced still fires.
type Scheduler struct {
	clock    Clock
	lessons  LessonLoader
	notifier Notifier
	admin    channels.Sender
	observer Observer
	logger   *logger.Logger
	cfg      SchedulerConfig

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
}

// NewScheduler creates a Scheduler. admin may be nil, in which case no summaries are sent.
func NewScheduler(clock Clock, lessons LessonLoader, notifier Notifier, admin channels.Sender, cfg SchedulerConfig, log *logger.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		clock:    clock,
		lessons:  lessons,
		notifier: notifier,
		admin:    admin,
		observer: nopObserver{},
		logger:   log,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[string]*job),
	}
}

// SetObserver replaces the activity observer.
func (s *Scheduler) SetObserver(o Observer) {
	if o != nil {
		s.observer = o
	}
}

// ScheduleAll reloads every lesson and replaces the armed job set with a fresh
// one. When lessons cannot be loaded the current jobs are left untouched.
func (s *Scheduler) ScheduleAll(ctx context.Context) (int, error) {
	if s.isClosed() {
		return 0, ErrSchedulerClosed
	}

	lessons, err := s.lessons.ListLessons(ctx)
	if err != nil {
		s.logger.Error("failed to load lessons, keeping armed reminders", err)
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSchedulerClosed
	}

	old := s.jobs
	s.jobs = make(map[string]*job, len(lessons)*len(LessonOffsets))
	for _, j := range old {
		s.cancelLocked(j)
	}

	for _, lesson := range lessons {
		if _, err := s.armLocked(lesson); err != nil {
			s.logger.Warn("skipping lesson",
				logger.Field{Key: "lesson", Value: lesson.Key()},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}

	n := len(s.jobs)
	s.observer.JobsArmed(n)
	s.logger.Info("lesson reminders scheduled",
		logger.Field{Key: "lessons", Value: len(lessons)},
		logger.Field{Key: "jobs", Value: n})
	return n, nil
}

// AddLesson arms the reminders of one lesson, replacing any already armed for
// the same lesson key. It returns how many jobs were armed.
func (s *Scheduler) AddLesson(lesson domain.Lesson) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSchedulerClosed
	}

	s.removeLocked(lesson.Key())
	n, err := s.armLocked(lesson)
	s.observer.JobsArmed(len(s.jobs))
	return n, err
}

// RemoveLesson cancels the outstanding reminders of a lesson and returns how
// many were cancelled. Fired or unknown lessons are a no-op.
func (s *Scheduler) RemoveLesson(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.removeLocked(key)
	s.observer.JobsArmed(len(s.jobs))
	return n
}

// Shutdown cancels every outstanding job. Later ScheduleAll and AddLesson calls fail.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, j := range s.jobs {
		s.cancelLocked(j)
	}
	s.jobs = make(map[string]*job)
	s.cancel()
	s.observer.JobsArmed(0)
}

// Jobs returns the armed jobs ordered by fire time.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	list := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		list = append(list, j.info)
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, k int) bool {
		if list[i].FireAt.Equal(list[k].FireAt) {
			return list[i].Key < list[k].Key
		}
		return list[i].FireAt.Before(list[k].FireAt)
	})
	return list
}

func (s *Scheduler) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scheduler) armLocked(lesson domain.Lesson) (int, error) {
	start, err := lesson.StartsAt(s.cfg.Location)
	if err != nil {
		return 0, err
	}
	if lesson.JoinLink == "" {
		lesson.JoinLink = s.cfg.DefaultJoinLink
	}

	now := s.clock.Now()
	armed := 0
	for _, off := range LessonOffsets {
		fireAt := start.Add(-off.Before)
		if !fireAt.After(now) {
			continue
		}
		j := &job{info: JobInfo{
			Key:       lesson.Key() + "_" + off.Name,
			LessonKey: lesson.Key(),
			Lesson:    lesson,
			Offset:    off,
			FireAt:    fireAt,
		}}
		j.cancel = s.clock.Schedule(fireAt, func() { s.fire(j) })
		s.jobs[j.info.Key] = j
		armed++
	}
	return armed, nil
}

func (s *Scheduler) removeLocked(lessonKey string) int {
	n := 0
	for _, off := range LessonOffsets {
		key := lessonKey + "_" + off.Name
		j, ok := s.jobs[key]
		if !ok {
			continue
		}
		delete(s.jobs, key)
		if s.cancelLocked(j) {
			n++
		}
	}
	return n
}

// cancelLocked stops j unless its timer has already gone off, in which case
// the pending fire is left to run.
func (s *Scheduler) cancelLocked(j *job) bool {
	if j.state != jobArmed || !j.cancel() {
		return false
	}
	j.state = jobCancelled
	return true
}

func (s *Scheduler) fire(j *job) {
	s.mu.Lock()
	if s.closed || j.state != jobArmed {
		s.mu.Unlock()
		return
	}
	j.state = jobFired
	if s.jobs[j.info.Key] == j {
		delete(s.jobs, j.info.Key)
	}
	remaining := len(s.jobs)
	s.mu.Unlock()

	s.observer.JobsArmed(remaining)
	s.observer.ReminderFired(j.info.Offset.Name)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("reminder fire panicked", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job", Value: j.info.Key})
		}
	}()

	lesson := j.info.Lesson
	text := messages.FormatLessonReminder(messages.LessonReminder{
		Title:       lesson.Title,
		Date:        lesson.Date,
		Time:        lesson.Time,
		OffsetLabel: j.info.Offset.Label,
		JoinLink:    lesson.JoinLink,
	})

	res, err := s.notifier.Dispatch(s.ctx, text, DispatchOptions{ToGroup: true, Mentions: true})
	if err != nil {
		s.logger.Error("lesson reminder dispatch failed", err,
			logger.Field{Key: "job", Value: j.info.Key})
	}
	s.logger.Info("lesson reminder sent",
		logger.Field{Key: "job", Value: j.info.Key},
		logger.Field{Key: "success", Value: res.Success},
		logger.Field{Key: "failed", Value: res.Failed})

	s.sendSummary(lesson.Title, j.info.Offset.Label, res)
}

func (s *Scheduler) sendSummary(title, label string, res Result) {
	if s.admin == nil || s.cfg.AdminChatID == 0 {
		return
	}
	summary := messages.FormatReminderSummary(title, label, res.Success, res.Failed)
	if err := s.admin.SendToChat(s.ctx, s.cfg.AdminChatID, summary, channels.ReminderSendOptions); err != nil {
		s.logger.Error("failed to send reminder summary", err)
	}
}
