// Package metrics exposes bot activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/coursebot/internal/workers"
)

const namespace = "coursebot"

// Metrics holds the bot collectors. It implements reminders.Observer.
type Metrics struct {
	registry         *prometheus.Registry
	commandsTotal    *prometheus.CounterVec
	reminderSends    *prometheus.CounterVec
	reminderFires    *prometheus.CounterVec
	armedJobs        prometheus.Gauge
	dispatchDuration prometheus.Histogram
}

// New registers the bot collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Commands handled, by command and result",
			},
			[]string{"command", "result"},
		),
		reminderSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminder_sends_total",
				Help:      "Reminder messages sent, by target and result",
			},
			[]string{"target", "result"},
		),
		reminderFires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminder_fires_total",
				Help:      "Lesson reminder jobs fired, by offset",
			},
			[]string{"offset"},
		),
		armedJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reminder_jobs_armed",
				Help:      "Number of armed lesson reminder jobs",
			},
		),
		dispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of reminder and announcement fan-outs",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
	}

	m.registry.MustRegister(
		m.commandsTotal,
		m.reminderSends,
		m.reminderFires,
		m.armedJobs,
		m.dispatchDuration,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordCommand(command, result string) {
	m.commandsTotal.WithLabelValues(command, result).Inc()
}

func (m *Metrics) ReminderFired(offset string) {
	m.reminderFires.WithLabelValues(offset).Inc()
}

func (m *Metrics) ReminderSent(target string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.reminderSends.WithLabelValues(target, result).Inc()
}

func (m *Metrics) JobsArmed(n int) {
	m.armedJobs.Set(float64(n))
}

func (m *Metrics) DispatchDuration(d time.Duration) {
	m.dispatchDuration.Observe(d.Seconds())
}

// PoolStats is the worker pool view the collectors read.
type PoolStats interface {
	Metrics() workers.PoolMetrics
	QueueSize() int
}

// RegisterPool exposes worker pool counters, read at scrape time.
func (m *Metrics) RegisterPool(pool PoolStats) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_tasks_submitted_total",
			Help:      "Tasks submitted to the worker pool",
		}, func() float64 { return float64(pool.Metrics().TasksSubmitted) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_tasks_completed_total",
			Help:      "Tasks completed by the worker pool",
		}, func() float64 { return float64(pool.Metrics().TasksCompleted) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_tasks_failed_total",
			Help:      "Tasks that returned an error or panicked",
		}, func() float64 { return float64(pool.Metrics().TasksFailed) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_queue_length",
			Help:      "Tasks waiting in the worker queue",
		}, func() float64 { return float64(pool.QueueSize()) }),
	)
}
