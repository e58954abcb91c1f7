// Package reminders arms lesson and personal reminders and fans the rendered
// notifications out to the course group and to opted-in users.
package reminders

import "time"

// Clock is the time source and timer facility used for arming reminders.
// internal/cron.Scheduler satisfies it.
type Clock interface {
	Now() time.Time
	// Schedule runs fn once at at. The returned cancel reports whether the
	// timer was still armed.
	Schedule(at time.Time, fn func()) (cancel func() bool)
}

// Observer receives reminder activity, typically for metrics.
type Observer interface {
	ReminderFired(offset string)
	ReminderSent(target string, ok bool)
	JobsArmed(n int)
	DispatchDuration(d time.Duration)
}

// Send targets reported to Observer.
const (
	TargetGroup = "group"
	TargetUser  = "user"
)

type nopObserver struct{}

func (nopObserver) ReminderFired(string)           {}
func (nopObserver) ReminderSent(string, bool)      {}
func (nopObserver) JobsArmed(int)                  {}
func (nopObserver) DispatchDuration(time.Duration) {}
