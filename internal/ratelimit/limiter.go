// Package ratelimit throttles commands per user with a per-minute and a
// per-hour token bucket.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	minute   *rate.Limiter
	hour     *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one pair of buckets per user.
type Limiter struct {
	perMinute int
	perHour   int
	now       func() time.Time

	mu    sync.Mutex
	users map[int64]*userLimiter
}

// New creates a Limiter allowing perMinute commands per minute and perHour
// commands per hour for each user. A non-positive limit disables that bucket.
func New(perMinute, perHour int) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		now:       time.Now,
		users:     make(map[int64]*userLimiter),
	}
}

// newBucket returns nil for an unlimited bucket.
func newBucket(n int, window time.Duration) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(n)), n)
}

func hasToken(b *rate.Limiter, now time.Time) bool {
	return b == nil || b.TokensAt(now) >= 1
}

func take(b *rate.Limiter, now time.Time) {
	if b != nil {
		b.AllowN(now, 1)
	}
}

// Allow reports whether userID may run another command now. A denied call
// consumes no tokens.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	u, ok := l.users[userID]
	if !ok {
		u = &userLimiter{
			minute: newBucket(l.perMinute, time.Minute),
			hour:   newBucket(l.perHour, time.Hour),
		}
		l.users[userID] = u
	}
	u.lastSeen = now

	if !hasToken(u.minute, now) || !hasToken(u.hour, now) {
		return false
	}
	take(u.minute, now)
	take(u.hour, now)
	return true
}

// Sweep drops users idle for longer than idle and returns how many were removed.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	n := 0
	for id, u := range l.users {
		if u.lastSeen.Before(cutoff) {
			delete(l.users, id)
			n++
		}
	}
	return n
}

// Tracked returns the number of users with live buckets.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
