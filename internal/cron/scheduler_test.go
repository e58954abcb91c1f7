package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/workers"
)

func TestNewScheduler(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	scheduler := NewScheduler(testLogger(), WithLocation(loc))

	assert.NotNil(t, scheduler.cron)
	assert.NotNil(t, scheduler.jobs)
	assert.Equal(t, loc, scheduler.Location())
	assert.Equal(t, loc, scheduler.Now().Location())
	assert.False(t, scheduler.IsStarted())
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsStarted())
	assert.Error(t, scheduler.Start(ctx), "second start must fail")

	require.NoError(t, scheduler.Stop())
	assert.False(t, scheduler.IsStarted())
	assert.Error(t, scheduler.Stop(), "second stop must fail")
}

func TestScheduler_StopsWithContext(t *testing.T) {
	scheduler := NewScheduler(testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, scheduler.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !scheduler.IsStarted() }, time.Second, 10*time.Millisecond)
}

func TestScheduler_ScheduleFiresOnce(t *testing.T) {
	scheduler := NewScheduler(testLogger())
	require.NoError(t, scheduler.Start(context.Background()))
	defer stopScheduler(scheduler)

	var calls atomic.Int32
	cancel := scheduler.Schedule(scheduler.Now().Add(150*time.Millisecond), func() {
		calls.Add(1)
	})

	assert.Len(t, scheduler.ListJobs(), 1)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, cancel(), "cancel after fire reports false")
	assert.Empty(t, scheduler.ListJobs())
}

func TestScheduler_ScheduleCancel(t *testing.T) {
	scheduler := NewScheduler(testLogger())
	require.NoError(t, scheduler.Start(context.Background()))
	defer stopScheduler(scheduler)

	var calls atomic.Int32
	cancel := scheduler.Schedule(scheduler.Now().Add(100*time.Millisecond), func() {
		calls.Add(1)
	})

	assert.True(t, cancel())
	assert.False(t, cancel(), "second cancel is a no-op")
	assert.Empty(t, scheduler.ListJobs())

	time.Sleep(250 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestScheduler_SchedulePastRunsImmediately(t *testing.T) {
	scheduler := NewScheduler(testLogger())

	done := make(chan struct{})
	scheduler.Schedule(scheduler.Now().Add(-time.Minute), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("past job did not run")
	}
}

func TestScheduler_ScheduleBeforeStart(t *testing.T) {
	scheduler := NewScheduler(testLogger())

	var calls atomic.Int32
	scheduler.Schedule(scheduler.Now().Add(200*time.Millisecond), func() { calls.Add(1) })

	require.NoError(t, scheduler.Start(context.Background()))
	defer stopScheduler(scheduler)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_AddRecurring(t *testing.T) {
	scheduler := NewScheduler(testLogger())

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, scheduler.AddRecurring("resync", "0 */6 * * *", func() {}))
		jobs := scheduler.ListJobs()
		require.Len(t, jobs, 1)
		assert.Equal(t, JobTypeRecurring, jobs[0].Type)
		assert.Equal(t, "0 */6 * * *", jobs[0].Schedule)
	})

	t.Run("descriptor", func(t *testing.T) {
		require.NoError(t, scheduler.AddRecurring("hourly", "@hourly", func() {}))
	})

	t.Run("duplicate name", func(t *testing.T) {
		assert.Error(t, scheduler.AddRecurring("resync", "@daily", func() {}))
	})

	t.Run("invalid expression", func(t *testing.T) {
		err := scheduler.AddRecurring("bad", "every now and then", func() {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cron expression")
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, scheduler.RemoveJob("hourly"))
		assert.Error(t, scheduler.RemoveJob("hourly"))
		assert.Len(t, scheduler.ListJobs(), 1)
	})
}

func TestScheduler_RemoveOneshotRejected(t *testing.T) {
	scheduler := NewScheduler(testLogger())
	cancel := scheduler.Schedule(scheduler.Now().Add(time.Hour), func() {})
	defer cancel()

	jobs := scheduler.ListJobs()
	require.Len(t, jobs, 1)
	assert.Error(t, scheduler.RemoveJob(jobs[0].ID))
}

func TestScheduler_RunsOnWorkerPool(t *testing.T) {
	log := testLogger()
	pool := workers.NewPool(1, 4, log)
	results := make(chan workers.Result, 1)
	pool.OnResult(func(r workers.Result) { results <- r })
	pool.Start()
	defer pool.Stop()

	scheduler := NewScheduler(log, WithWorkerPool(pool))
	scheduler.Schedule(scheduler.Now(), func() {})

	select {
	case r := <-results:
		assert.Equal(t, workers.TaskTypeCron, r.Type)
		assert.NoError(t, r.Error)
	case <-time.After(time.Second):
		t.Fatal("task was not executed on the pool")
	}
}

func TestScheduler_PanicRecovered(t *testing.T) {
	scheduler := NewScheduler(testLogger())

	assert.NotPanics(t, func() {
		scheduler.executeJob("boom", func() { panic("boom") })
	})
}

func TestOnceSchedule(t *testing.T) {
	at := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	s := onceSchedule{at: at}

	assert.Equal(t, at, s.Next(at.Add(-time.Second)))
	assert.True(t, s.Next(at).IsZero())
	assert.True(t, s.Next(at.Add(time.Second)).IsZero())
}

func TestJobIDFromContext(t *testing.T) {
	_, ok := JobIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := JobIDFromContext(withJobID(context.Background(), "resync"))
	assert.True(t, ok)
	assert.Equal(t, "resync", id)
}
