package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/workers"
)

var _ reminders.Observer = (*Metrics)(nil)

type stubPool struct{}

func (stubPool) Metrics() workers.PoolMetrics {
	return workers.PoolMetrics{TasksSubmitted: 5, TasksCompleted: 4, TasksFailed: 1}
}

func (stubPool) QueueSize() int { return 2 }

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.RecordCommand("start", "ok")
	m.RecordCommand("start", "ok")
	m.ReminderFired("1h")
	m.ReminderSent(reminders.TargetUser, true)
	m.ReminderSent(reminders.TargetUser, false)
	m.JobsArmed(7)
	m.DispatchDuration(300 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("start", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminderFires.WithLabelValues("1h")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminderSends.WithLabelValues("user", "failed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.armedJobs))
	assert.Equal(t, 1, testutil.CollectAndCount(m.dispatchDuration))
}

func TestMetrics_RegisterPool(t *testing.T) {
	m := New()
	m.RegisterPool(stubPool{})

	n, err := testutil.GatherAndCount(m.Registry(),
		"coursebot_worker_tasks_submitted_total", "coursebot_worker_queue_length")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestServer_Handlers(t *testing.T) {
	m := New()
	m.RecordCommand("help", "ok")

	healthy := true
	s := NewServer("127.0.0.1:0", m, func(context.Context) error {
		if !healthy {
			return errors.New("database unreachable")
		}
		return nil
	}, logger.Nop())

	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coursebot_commands_total{command="help",result="ok"} 1`)

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	healthy = false
	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unreachable")
}

func TestServer_StartShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", New(), nil, logger.Nop())
	require.NoError(t, s.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
