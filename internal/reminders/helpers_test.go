package reminders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/domain"
)

type fakeTimer struct {
	at        time.Time
	fn        func()
	fired     bool
	cancelled bool
}

// fakeClock fires timers only from Advance, in fire-time order. While holding,
// due timers are marked fired but their callbacks wait for Release, the way a
// cron tick queues work on a busy pool.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	holding bool
	held    []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Schedule(at time.Time, fn func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: at, fn: fn}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.fired || t.cancelled {
			return false
		}
		t.cancelled = true
		return true
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.fired && !t.cancelled && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	c.mu.Lock()
	if c.holding {
		c.held = append(c.held, due...)
		due = nil
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

// Hold defers callbacks of timers that come due until Release.
func (c *fakeClock) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holding = true
}

// Release runs the deferred callbacks and stops holding.
func (c *fakeClock) Release() {
	c.mu.Lock()
	held := c.held
	c.held = nil
	c.holding = false
	c.mu.Unlock()
	for _, t := range held {
		t.fn()
	}
}

func (c *fakeClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[int64]bool
}

func newFakeSender(failing ...int64) *fakeSender {
	s := &fakeSender{fail: make(map[int64]bool)}
	for _, id := range failing {
		s.fail[id] = true
	}
	return s
}

func (s *fakeSender) SendToChat(_ context.Context, chatID int64, text string, _ channels.SendOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[chatID] {
		return errors.New("forbidden: bot was blocked by the user")
	}
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func (s *fakeSender) sentTo(chatID int64) []string {
	var out []string
	for _, m := range s.messages() {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

type fakeRecipients struct {
	active   []int64
	verified []int64
	err      error
	calls    int
}

func (r *fakeRecipients) ActiveRecipients(context.Context) ([]int64, error) {
	r.calls++
	return append([]int64(nil), r.active...), r.err
}

func (r *fakeRecipients) VerifiedRecipients(context.Context) ([]int64, error) {
	r.calls++
	return append([]int64(nil), r.verified...), r.err
}

type fakeLoader struct {
	mu      sync.Mutex
	lessons []domain.Lesson
	err     error
}

func (l *fakeLoader) ListLessons(context.Context) ([]domain.Lesson, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Lesson(nil), l.lessons...), l.err
}

func (l *fakeLoader) set(lessons []domain.Lesson, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lessons, l.err = lessons, err
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	opts     []DispatchOptions
	result   Result
	err      error
	panics   bool
}

func (n *fakeNotifier) Dispatch(_ context.Context, message string, opts DispatchOptions) (Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.panics {
		panic("dispatch exploded")
	}
	n.messages = append(n.messages, message)
	n.opts = append(n.opts, opts)
	return n.result, n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type recordingObserver struct {
	mu    sync.Mutex
	fired []string
	sent  map[string]int
	armed int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{sent: make(map[string]int)}
}

func (o *recordingObserver) ReminderFired(offset string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fired = append(o.fired, offset)
}

func (o *recordingObserver) ReminderSent(target string, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := target + "_ok"
	if !ok {
		key = target + "_failed"
	}
	o.sent[key]++
}

func (o *recordingObserver) JobsArmed(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.armed = n
}

func (o *recordingObserver) DispatchDuration(time.Duration) {}

var riyadh = time.FixedZone("AST", 3*60*60)

func localTime(s string) time.Time {
	t, err := time.ParseInLocation(domain.DateTimeLayout, s, riyadh)
	if err != nil {
		panic(err)
	}
	return t
}
