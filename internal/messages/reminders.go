package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
)

// LessonReminder is the data shown in a lesson reminder.
type LessonReminder struct {
	Title       string
	Date        string
	Time        string
	OffsetLabel string
	JoinLink    string
}

// FormatLessonReminder renders the reminder sent before a lesson.
func FormatLessonReminder(r LessonReminder) string {
	return fmt.Sprintf(constants.MsgLessonReminder,
		EscapeMarkdownV2(r.Title),
		EscapeMarkdownV2(r.Date),
		EscapeMarkdownV2(r.Time),
		EscapeMarkdownV2(r.OffsetLabel),
		EscapeLinkURL(r.JoinLink),
	)
}

// FormatGroupMessage appends invisible mentions of userIDs to message.
// With no users the message is returned unchanged.
func FormatGroupMessage(message string, userIDs []int64) string {
	if len(userIDs) == 0 {
		return message
	}
	return message + "\n\n" + Mentions(userIDs)
}

// FormatReminderSummary renders the admin notice sent after a reminder fires.
func FormatReminderSummary(title, offsetLabel string, success, failed int) string {
	return fmt.Sprintf(constants.MsgReminderSummary,
		EscapeMarkdownV2(title), EscapeMarkdownV2(offsetLabel), success, failed)
}

// FormatCustomReminder renders a personal reminder notification.
func FormatCustomReminder(r domain.CustomReminder) string {
	return fmt.Sprintf(constants.MsgCustomReminder,
		EscapeMarkdownV2(r.Message), EscapeMarkdownV2(r.RemindAt))
}

// FormatReminderCreated confirms /addreminder.
func FormatReminderCreated(r domain.CustomReminder) string {
	return fmt.Sprintf(constants.MsgReminderCreated, r.RemindAt, EscapeMarkdownV2(r.Message), r.ID)
}

// FormatReminderList renders /listreminders.
func FormatReminderList(list []domain.CustomReminder) string {
	if len(list) == 0 {
		return constants.MsgRemindersEmpty
	}

	var b strings.Builder
	b.WriteString(constants.MsgRemindersHeader)
	for _, r := range list {
		status := "⏳"
		if r.Sent {
			status = "✅"
		}
		b.WriteString(fmt.Sprintf(constants.MsgReminderItem,
			status, r.ID, EscapeMarkdownV2(r.RemindAt), EscapeMarkdownV2(r.Message)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ScheduledJob is one row of /jobs.
type ScheduledJob struct {
	Title       string
	OffsetLabel string
	FireAt      time.Time
}

// FormatJobs renders the armed lesson reminder jobs.
func FormatJobs(jobs []ScheduledJob) string {
	if len(jobs) == 0 {
		return constants.MsgJobsEmpty
	}

	var b strings.Builder
	b.WriteString(constants.MsgJobsHeader)
	for _, j := range jobs {
		b.WriteString(fmt.Sprintf(constants.MsgJobItem,
			EscapeMarkdownV2(j.Title),
			EscapeMarkdownV2(j.OffsetLabel),
			EscapeMarkdownV2(j.FireAt.Format(domain.DateTimeLayout))))
	}
	return b.String()
}
