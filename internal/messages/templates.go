package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
)

// FormatStart renders the /start greeting.
func FormatStart(verified bool, supportChannel string) string {
	support := EscapeMarkdownV2(supportChannel)

	var b strings.Builder
	b.WriteString(constants.MsgStartHeader)
	if verified {
		b.WriteString(constants.MsgStartVerified)
	} else {
		b.WriteString(fmt.Sprintf(constants.MsgStartUnverified, support))
	}
	b.WriteString(fmt.Sprintf(constants.MsgStartFeatures, support))
	return b.String()
}

// FormatHelp lists the commands available to the caller.
func FormatHelp(verified, admin bool, supportChannel string) string {
	var b strings.Builder
	b.WriteString(constants.MsgHelpHeader)
	b.WriteString(constants.MsgHelpBasic)
	if !verified {
		b.WriteString(constants.MsgHelpVerify)
	}
	if verified || admin {
		b.WriteString(constants.MsgHelpMembers)
	}
	if admin {
		b.WriteString(constants.MsgHelpAdmin)
	}
	if !verified {
		b.WriteString(constants.MsgHelpUnverifiedNote)
	}
	b.WriteString(fmt.Sprintf(constants.MsgHelpFooter, EscapeMarkdownV2(supportChannel)))
	return b.String()
}

// FormatAdminNewUser notifies admins about a fresh verification.
func FormatAdminNewUser(u domain.User) string {
	username := constants.MsgNotAvailable
	if u.Username != "" {
		username = "@" + u.Username
	}
	return fmt.Sprintf(constants.MsgAdminNewUser,
		EscapeMarkdownV2(orNA(u.FirstName)), EscapeMarkdownV2(username), u.ID)
}

// Profile aggregates what /profile shows.
type Profile struct {
	User        domain.User
	Attended    int
	Submissions int
}

func FormatProfile(p Profile, supportChannel string) string {
	status := constants.MsgUnverified
	if p.User.Verified {
		status = constants.MsgVerified
	}
	reminders := constants.MsgDisabled
	if p.User.RemindersEnabled {
		reminders = constants.MsgEnabled
	}
	username := p.User.Username
	if username != "" {
		username = "@" + username
	}

	return fmt.Sprintf(constants.MsgProfile,
		p.User.ID,
		EscapeMarkdownV2(orNA(p.User.FirstName)),
		EscapeMarkdownV2(orNA(username)),
		status,
		reminders,
		p.Attended,
		p.Submissions,
		EscapeMarkdownV2(supportChannel),
	)
}

func FormatCourses(courses []domain.Course) string {
	var b strings.Builder
	b.WriteString(constants.MsgCoursesHeader)
	if len(courses) == 0 {
		b.WriteString(constants.MsgCoursesEmpty)
		return b.String()
	}
	for i, c := range courses {
		b.WriteString(fmt.Sprintf(constants.MsgCourseItem, i+1, EscapeMarkdownV2(c.Name)))
		if c.Description != "" {
			b.WriteString(fmt.Sprintf(constants.MsgCourseDesc, EscapeMarkdownV2(c.Description)))
		}
		b.WriteString(fmt.Sprintf(constants.MsgCourseID, c.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatUpcomingLessons(lessons []domain.Lesson) string {
	if len(lessons) == 0 {
		return constants.MsgLessonsEmpty
	}

	var b strings.Builder
	b.WriteString(constants.MsgLessonsHeader)
	for _, l := range lessons {
		b.WriteString(fmt.Sprintf(constants.MsgLessonItem,
			l.ID, EscapeMarkdownV2(l.Title), EscapeMarkdownV2(l.Date), EscapeMarkdownV2(l.Time)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatAssignments(list []domain.Assignment) string {
	if len(list) == 0 {
		return constants.MsgAssignmentsEmpty
	}

	var b strings.Builder
	b.WriteString(constants.MsgAssignmentsHeader)
	for _, a := range list {
		b.WriteString(fmt.Sprintf(constants.MsgAssignmentItem,
			a.ID, EscapeMarkdownV2(a.Title), EscapeMarkdownV2(a.Question), EscapeMarkdownV2(orNA(a.Deadline))))
	}
	b.WriteString(constants.MsgAssignmentsFooter)
	return b.String()
}

func FormatAttendanceRecorded(l domain.Lesson) string {
	return fmt.Sprintf(constants.MsgAttendanceRecorded, EscapeMarkdownV2(l.Title), EscapeMarkdownV2(l.Date))
}

func FormatSubmission(sub domain.Submission, a domain.Assignment) string {
	verdict := constants.MsgSubmitWrong
	if sub.Score > 0 {
		verdict = constants.MsgSubmitCorrect
	}
	return fmt.Sprintf(constants.MsgSubmitResult,
		EscapeMarkdownV2(a.Title), EscapeMarkdownV2(a.CorrectAnswer), sub.Score, verdict)
}

func FormatSettings(remindersEnabled bool) string {
	state := constants.MsgDisabled
	if remindersEnabled {
		state = constants.MsgEnabled
	}
	return fmt.Sprintf(constants.MsgSettings, state)
}

func FormatRemindersToggled(enabled bool) string {
	if enabled {
		return constants.MsgRemindersOn
	}
	return constants.MsgRemindersOff
}

func feedbackKindLabel(kind domain.FeedbackKind) (label, emoji string) {
	if kind == domain.FeedbackBug {
		return constants.MsgBugKind, "🐞"
	}
	return constants.MsgFeedbackKind, "💬"
}

// FormatFeedbackAdmin forwards a feedback entry to the admin chat.
func FormatFeedbackAdmin(u domain.User, kind domain.FeedbackKind, text string) string {
	label, _ := feedbackKindLabel(kind)
	return fmt.Sprintf(constants.MsgFeedbackAdmin,
		EscapeMarkdownV2(label), EscapeMarkdownV2(u.DisplayName()), u.ID, EscapeMarkdownV2(text))
}

func FormatFeedbackList(list []domain.Feedback) string {
	if len(list) == 0 {
		return constants.MsgFeedbackEmpty
	}

	var b strings.Builder
	b.WriteString(constants.MsgFeedbackHeader)
	for _, f := range list {
		_, emoji := feedbackKindLabel(f.Kind)
		b.WriteString(fmt.Sprintf(constants.MsgFeedbackItem,
			emoji, f.ID, f.UserID,
			EscapeMarkdownV2(f.CreatedAt.Format(domain.DateTimeLayout)),
			EscapeMarkdownV2(f.Text)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStats renders /stats. armedJobs is the number of pending lesson reminders.
func FormatStats(s domain.Stats, armedJobs int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(constants.MsgStats, s.TotalUsers, s.VerifiedUsers, s.RemindersEnabled, armedJobs))

	if len(s.AttendanceByLesson) > 0 {
		b.WriteString(constants.MsgStatsAttendance)
		for _, a := range s.AttendanceByLesson {
			b.WriteString(fmt.Sprintf(constants.MsgStatsItem, EscapeMarkdownV2(a.Title), a.Count))
		}
	}
	if len(s.SubmissionsByAssignment) > 0 {
		b.WriteString(constants.MsgStatsSubmissions)
		for _, a := range s.SubmissionsByAssignment {
			b.WriteString(fmt.Sprintf(constants.MsgStatsItem, EscapeMarkdownV2(a.Title), a.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatAnnouncement(content string) string {
	return fmt.Sprintf(constants.MsgAnnouncement, EscapeMarkdownV2(content))
}

func FormatBroadcast(content string) string {
	return fmt.Sprintf(constants.MsgBroadcast, EscapeMarkdownV2(content))
}

func FormatCourseCreated(id int64, name string) string {
	return fmt.Sprintf(constants.MsgCourseCreated, EscapeMarkdownV2(name), id)
}

func FormatCourseUpdated(id int64, name string) string {
	return fmt.Sprintf(constants.MsgCourseUpdated, id, EscapeMarkdownV2(name))
}

func FormatLessonCreated(l domain.Lesson, armed int) string {
	return fmt.Sprintf(constants.MsgLessonCreated,
		l.ID, EscapeMarkdownV2(l.Title), EscapeMarkdownV2(l.Date), EscapeMarkdownV2(l.Time), armed)
}

func FormatLessonInvalid(err error) string {
	return fmt.Sprintf(constants.MsgLessonInvalid, EscapeMarkdownV2(err.Error()))
}

func FormatAssignmentCreated(a domain.Assignment) string {
	return fmt.Sprintf(constants.MsgAssignmentCreated,
		a.ID, EscapeMarkdownV2(a.Title), EscapeMarkdownV2(a.Question), EscapeMarkdownV2(orNA(a.Deadline)))
}

func FormatAssignmentUpdated(id int64, field, value string) string {
	return fmt.Sprintf(constants.MsgAssignmentUpdated, id, EscapeMarkdownV2(field), EscapeMarkdownV2(value))
}

// Health is the data behind /health.
type Health struct {
	DatabaseErr error
	ArmedJobs   int
	QueuedTasks int
	Uptime      time.Duration
	Version     string
}

// FormatHealth renders /health.
func FormatHealth(h Health) string {
	db := constants.MsgHealthOK
	if h.DatabaseErr != nil {
		db = "❌ " + EscapeMarkdownV2(h.DatabaseErr.Error())
	}
	return fmt.Sprintf(constants.MsgHealth,
		db, h.ArmedJobs, h.QueuedTasks,
		EscapeMarkdownV2(h.Uptime.Truncate(time.Second).String()),
		EscapeMarkdownV2(h.Version))
}
