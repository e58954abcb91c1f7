package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/workers"
)

const (
	adminID   int64 = 1
	studentID int64 = 100
	groupID   int64 = -1000
	adminChat int64 = -2000
)

type sentMessage struct {
	ChatID int64
	Text   string
	Opts   channels.SendOptions
}

type sentDocument struct {
	ChatID   int64
	Filename string
	Data     []byte
	Caption  string
}

// mockResponder records every reply.
type mockResponder struct {
	mu        sync.Mutex
	messages  []sentMessage
	documents []sentDocument
}

func (m *mockResponder) SendToChat(_ context.Context, chatID int64, text string, opts channels.SendOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, sentMessage{ChatID: chatID, Text: text, Opts: opts})
	return nil
}

func (m *mockResponder) SendDocument(_ context.Context, chatID int64, filename string, data []byte, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, sentDocument{ChatID: chatID, Filename: filename, Data: data, Caption: caption})
	return nil
}

// last returns the last message sent to chatID.
func (m *mockResponder) last(t *testing.T, chatID int64) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ChatID == chatID {
			return m.messages[i].Text
		}
	}
	t.Fatalf("no message sent to chat %d", chatID)
	return ""
}

func (m *mockResponder) sentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

// mockLessons records armed and removed lessons.
type mockLessons struct {
	mu      sync.Mutex
	added   []domain.Lesson
	removed []string
	jobs    []reminders.JobInfo
	armed   int
}

func (m *mockLessons) AddLesson(lesson domain.Lesson) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, lesson)
	return m.armed, nil
}

func (m *mockLessons) RemoveLesson(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, key)
	return 2
}

func (m *mockLessons) Jobs() []reminders.JobInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs
}

type mockPersonal struct {
	mu        sync.Mutex
	armed     []domain.CustomReminder
	cancelled []int64
}

func (m *mockPersonal) Arm(r domain.CustomReminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = append(m.armed, r)
	return nil
}

func (m *mockPersonal) Cancel(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, id)
	return true
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Dispatch(ctx context.Context, message string, opts reminders.DispatchOptions) (reminders.Result, error) {
	args := m.Called(ctx, message, opts)
	return args.Get(0).(reminders.Result), args.Error(1)
}

// inlineTasks runs submitted tasks synchronously.
type inlineTasks struct {
	submitted []workers.Task
	err       error
}

func (p *inlineTasks) Submit(task workers.Task) error {
	if p.err != nil {
		return p.err
	}
	p.submitted = append(p.submitted, task)
	return task.Run(context.Background())
}

func (p *inlineTasks) QueueSize() int { return 0 }

type denyLimiter struct{ deny map[int64]bool }

func (l denyLimiter) Allow(userID int64) bool { return !l.deny[userID] }

type recordedCommand struct{ command, result string }

type mockRecorder struct {
	mu       sync.Mutex
	recorded []recordedCommand
}

func (m *mockRecorder) RecordCommand(command, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, recordedCommand{command, result})
}

func (m *mockRecorder) lastResult() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.recorded) == 0 {
		return ""
	}
	return m.recorded[len(m.recorded)-1].result
}

type testEnv struct {
	handler   *Handler
	store     *storage.Store
	responder *mockResponder
	lessons   *mockLessons
	personal  *mockPersonal
	notifier  *mockNotifier
	tasks     *inlineTasks
	limiter   denyLimiter
	recorder  *mockRecorder
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			AdminUserIDs:   []int64{adminID},
			GroupID:        groupID,
			AdminChatID:    adminChat,
			SupportChannel: "@support",
		},
		Course: config.CourseConfig{ActivationCode: "OPEN-SESAME"},
	}

	env := &testEnv{
		store:     store,
		responder: &mockResponder{},
		lessons:   &mockLessons{armed: 2},
		personal:  &mockPersonal{},
		notifier:  &mockNotifier{},
		tasks:     &inlineTasks{},
		limiter:   denyLimiter{deny: map[int64]bool{}},
		recorder:  &mockRecorder{},
		now:       time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	env.handler = NewHandler(Deps{
		Config:    cfg,
		Store:     store,
		Responder: env.responder,
		Lessons:   env.lessons,
		Personal:  env.personal,
		Notifier:  env.notifier,
		Tasks:     env.tasks,
		Limiter:   env.limiter,
		Metrics:   env.recorder,
		Location:  time.UTC,
		Now:       func() time.Time { return env.now },
		Logger:    logger.Nop(),
	})
	return env
}

// run handles text sent by userID in their private chat.
func (e *testEnv) run(t *testing.T, userID int64, text string) string {
	t.Helper()
	command, args, ok := ParseCommand(text)
	require.True(t, ok, "not a command: %q", text)
	req := Request{UserID: userID, ChatID: userID, FirstName: "User", Command: command, Args: args}
	require.NoError(t, e.handler.Handle(context.Background(), req))
	return e.responder.last(t, userID)
}

func (e *testEnv) verify(t *testing.T, userID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.Users.Upsert(ctx, userID, "", "User"))
	require.NoError(t, e.store.Users.Verify(ctx, userID))
}

func (e *testEnv) addCourse(t *testing.T, name string) int64 {
	t.Helper()
	id, err := e.store.Courses.Add(context.Background(), name, "")
	require.NoError(t, err)
	return id
}
