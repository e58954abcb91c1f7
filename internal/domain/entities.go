package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// User is a bot user. New users start unverified with reminders enabled.
type User struct {
	ID               int64
	Username         string
	FirstName        string
	JoinedAt         time.Time
	Verified         bool
	RemindersEnabled bool
}

// DisplayName prefers the first name, then @username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "user"
}

type Course struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

type Assignment struct {
	ID            int64
	CourseID      int64
	Title         string
	Question      string
	CorrectAnswer string
	Deadline      string
}

// AssignmentFields lists the columns /updateassignment may change.
var AssignmentFields = []string{"title", "question", "correct_answer", "deadline"}

// IsAssignmentField reports whether field may be updated.
func IsAssignmentField(field string) bool {
	for _, f := range AssignmentFields {
		if f == field {
			return true
		}
	}
	return false
}

type Submission struct {
	UserID       int64
	AssignmentID int64
	Answer       string
	Score        int
	SubmittedAt  time.Time
}

// CheckAnswer compares answers ignoring surrounding space, case and
// Unicode normalization form.
func CheckAnswer(answer, correct string) bool {
	return foldAnswer(answer) == foldAnswer(correct)
}

func foldAnswer(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

type Announcement struct {
	ID          int64
	Content     string
	PublishedAt time.Time
	SentToGroup bool
}

// FeedbackKind separates general feedback from bug reports.
type FeedbackKind string

const (
	FeedbackGeneral FeedbackKind = "feedback"
	FeedbackBug     FeedbackKind = "bug"
)

type Feedback struct {
	ID        int64
	UserID    int64
	Kind      FeedbackKind
	Text      string
	CreatedAt time.Time
}

// CustomReminder is a personal reminder created with /addreminder.
type CustomReminder struct {
	ID        int64
	UserID    int64
	RemindAt  string // YYYY-MM-DD HH:MM
	Message   string
	Sent      bool
	CreatedAt time.Time
}

// At resolves RemindAt in loc.
func (r CustomReminder) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, r.RemindAt, loc)
}

// Attendance per lesson, for /stats.
type LessonAttendance struct {
	LessonID int64
	Title    string
	Count    int
}

// Submissions per assignment, for /stats.
type AssignmentSubmissions struct {
	AssignmentID int64
	Title        string
	Count        int
}

type Stats struct {
	TotalUsers              int
	VerifiedUsers           int
	RemindersEnabled        int
	AttendanceByLesson      []LessonAttendance
	SubmissionsByAssignment []AssignmentSubmissions
}
