// Package domain contains the course community entities shared by storage,
// reminders and command handlers.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = DateLayout + " " + TimeLayout
)

// ErrInvalidLesson marks a lesson record that cannot be scheduled.
var ErrInvalidLesson = errors.New("invalid lesson")

// Lesson is a scheduled class session.
// ID is zero for lessons declared in static configuration.
type Lesson struct {
	ID       int64
	CourseID int64
	Title    string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM, local to the course timezone
	JoinLink string
}

// Key identifies the lesson for reminder bookkeeping: the database id when present,
// otherwise title and date.
func (l Lesson) Key() string {
	if l.ID > 0 {
		return strconv.FormatInt(l.ID, 10)
	}
	return l.Title + "@" + l.Date
}

// StartsAt resolves the lesson start in loc.
func (l Lesson) StartsAt(loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(l.Date) == "" || strings.TrimSpace(l.Time) == "" {
		return time.Time{}, fmt.Errorf("%w: lesson %q has no date or time", ErrInvalidLesson, l.Title)
	}
	start, err := time.ParseInLocation(DateTimeLayout, l.Date+" "+l.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: lesson %q: %v", ErrInvalidLesson, l.Title, err)
	}
	return start, nil
}

// Validate checks the fields an admin must supply.
func (l Lesson) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidLesson)
	}
	_, err := l.StartsAt(time.UTC)
	return err
}

// MergeLessons appends static lessons that are not already stored. Stored lessons
// win; a static lesson matches a stored one by title and date.
func MergeLessons(stored, static []Lesson) []Lesson {
	seen := make(map[string]struct{}, len(stored))
	merged := make([]Lesson, 0, len(stored)+len(static))
	for _, l := range stored {
		seen[l.Title+"\x00"+l.Date] = struct{}{}
		merged = append(merged, l)
	}
	for _, l := range static {
		k := l.Title + "\x00" + l.Date
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, l)
	}
	return merged
}
