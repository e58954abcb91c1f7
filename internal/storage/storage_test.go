package storage

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/domain"
)

func TestMigrate_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.DB.Migrate())
	require.NoError(t, s.DB.Ping(context.Background()))
}

func TestLoadMigrations(t *testing.T) {
	t.Run("sorted by version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/002_second_step.sql": {Data: []byte("SELECT 2;")},
			"m/001_first.sql":       {Data: []byte("SELECT 1;")},
			"m/README.md":           {Data: []byte("ignored")},
		}
		migrations, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, migrations, 2)
		assert.Equal(t, float64(1), migrations[0].Version)
		assert.Equal(t, "second step", migrations[1].Description)
		assert.Equal(t, "SELECT 2;", migrations[1].Script)
	})

	t.Run("bad name", func(t *testing.T) {
		fsys := fstest.MapFS{"m/first.sql": {Data: []byte("SELECT 1;")}}
		_, err := loadMigrations(fsys, "m")
		assert.Error(t, err)
	})
}

func TestUserRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("new user defaults", func(t *testing.T) {
		require.NoError(t, s.Users.Upsert(ctx, 10, "ali", "Ali"))
		u, err := s.Users.Get(ctx, 10)
		require.NoError(t, err)
		assert.False(t, u.Verified)
		assert.True(t, u.RemindersEnabled)
		assert.Equal(t, "Ali", u.DisplayName())
	})

	t.Run("upsert keeps verification", func(t *testing.T) {
		require.NoError(t, s.Users.Verify(ctx, 10))
		require.NoError(t, s.Users.Upsert(ctx, 10, "ali2", "Ali"))
		u, err := s.Users.Get(ctx, 10)
		require.NoError(t, err)
		assert.True(t, u.Verified)
		assert.Equal(t, "ali2", u.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users.Get(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
		verified, err := s.Users.IsVerified(ctx, 999)
		require.NoError(t, err)
		assert.False(t, verified)
		assert.ErrorIs(t, s.Users.Verify(ctx, 999), ErrNotFound)
	})

	t.Run("toggle reminders", func(t *testing.T) {
		enabled, err := s.Users.ToggleReminders(ctx, 10)
		require.NoError(t, err)
		assert.False(t, enabled)
		enabled, err = s.Users.ToggleReminders(ctx, 10)
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}

func TestUserRepository_ListActiveRecipients(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	addVerifiedUser(t, s, 1, "a")
	addVerifiedUser(t, s, 2, "b")
	addVerifiedUser(t, s, 3, "c")
	require.NoError(t, s.Users.Upsert(ctx, 4, "unverified", "U"))
	require.NoError(t, s.Users.SetReminders(ctx, 2, false))

	ids, err := s.Users.ListActiveRecipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	verified, err := s.Users.ListVerified(ctx)
	require.NoError(t, err)
	assert.Len(t, verified, 3)

	all, err := s.Users.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCourseRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Courses.Add(ctx, "Tajweed", "basics")
	require.NoError(t, err)

	_, err = s.Courses.Add(ctx, "Tajweed", "dup")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, s.Courses.Update(ctx, id, "Tajweed 1", "updated"))
	c, err := s.Courses.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tajweed 1", c.Name)

	lessonID, err := s.Lessons.Add(ctx, domain.Lesson{CourseID: id, Title: "L1", Date: "2025-01-15", Time: "19:00"})
	require.NoError(t, err)
	_, err = s.Assignments.Add(ctx, domain.Assignment{CourseID: id, Title: "A1", Question: "q", CorrectAnswer: "a"})
	require.NoError(t, err)

	deleted, err := s.Courses.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{lessonID}, deleted)

	_, err = s.Lessons.Get(ctx, lessonID)
	assert.ErrorIs(t, err, ErrNotFound)
	assignments, err := s.Assignments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	_, err = s.Courses.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonRepository_ListUpcoming(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	addLesson(t, s, "past", "2025-01-14", "10:00")
	addLesson(t, s, "today later", "2025-01-15", "19:00")
	addLesson(t, s, "tomorrow", "2025-01-16", "08:00")
	addLesson(t, s, "next week", "2025-01-22", "19:00")

	now := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	lessons, err := s.Lessons.ListUpcoming(ctx, now, 2)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "today later", lessons[0].Title)
	assert.Equal(t, "tomorrow", lessons[1].Title)

	all, err := s.Lessons.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAttendanceRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	addVerifiedUser(t, s, 1, "a")
	lessonID := addLesson(t, s, "L1", "2025-01-15", "19:00")

	first, err := s.Attendance.Mark(ctx, 1, lessonID)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.Attendance.Mark(ctx, 1, lessonID)
	require.NoError(t, err)
	assert.False(t, again)

	n, err := s.Attendance.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Attendance.Mark(ctx, 1, lessonID+100)
	assert.Error(t, err, "foreign key must reject unknown lessons")
}

func TestAssignmentRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	addVerifiedUser(t, s, 1, "a")

	id, err := s.Assignments.Add(ctx, domain.Assignment{
		CourseID:      1,
		Title:         "Q1",
		Question:      "Capital of Egypt?",
		CorrectAnswer: "Cairo",
		Deadline:      "2025-02-01",
	})
	require.NoError(t, err)

	t.Run("update whitelisted field", func(t *testing.T) {
		require.NoError(t, s.Assignments.Update(ctx, id, "deadline", "2025-03-01"))
		a, err := s.Assignments.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", a.Deadline)
	})

	t.Run("reject unknown field", func(t *testing.T) {
		assert.Error(t, s.Assignments.Update(ctx, id, "course_id; DROP TABLE users", "x"))
	})

	t.Run("submit grades answer", func(t *testing.T) {
		sub, a, err := s.Assignments.Submit(ctx, 1, id, "  cairo ")
		require.NoError(t, err)
		assert.Equal(t, 1, sub.Score)
		assert.Equal(t, "Q1", a.Title)

		sub, _, err = s.Assignments.Submit(ctx, 1, id, "Giza")
		require.NoError(t, err)
		assert.Equal(t, 0, sub.Score)

		n, err := s.Assignments.CountSubmissions(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "resubmission replaces the earlier answer")
	})

	t.Run("submit unknown assignment", func(t *testing.T) {
		_, _, err := s.Assignments.Submit(ctx, 1, id+100, "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Assignments.Delete(ctx, id))
		assert.ErrorIs(t, s.Assignments.Delete(ctx, id), ErrNotFound)
	})
}

func TestFeedbackAndAnnouncements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	addVerifiedUser(t, s, 1, "a")

	_, err := s.Feedback.Add(ctx, 1, domain.FeedbackGeneral, "great course")
	require.NoError(t, err)
	_, err = s.Feedback.Add(ctx, 1, domain.FeedbackBug, "link broken")
	require.NoError(t, err)

	list, err := s.Feedback.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.FeedbackBug, list[0].Kind)
	assert.Equal(t, "great course", list[1].Text)

	_, err = s.Announcements.Add(ctx, "welcome", true)
	require.NoError(t, err)
	anns, err := s.Announcements.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.True(t, anns[0].SentToGroup)
}

func TestCustomReminderRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	addVerifiedUser(t, s, 1, "a")
	addVerifiedUser(t, s, 2, "b")

	r1, err := s.CustomReminders.Add(ctx, 1, "2025-01-15 19:00", "review")
	require.NoError(t, err)
	_, err = s.CustomReminders.Add(ctx, 1, "2025-01-14 08:00", "homework")
	require.NoError(t, err)
	r3, err := s.CustomReminders.Add(ctx, 2, "2025-01-16 09:00", "other")
	require.NoError(t, err)

	mine, err := s.CustomReminders.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "homework", mine[0].Message)

	require.NoError(t, s.CustomReminders.MarkSent(ctx, r1.ID))
	pending, err := s.CustomReminders.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	assert.ErrorIs(t, s.CustomReminders.Delete(ctx, 1, r3.ID), ErrNotFound, "users cannot delete others' reminders")
	require.NoError(t, s.CustomReminders.Delete(ctx, 2, r3.ID))
}

func TestStatsRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	addVerifiedUser(t, s, 1, "a")
	addVerifiedUser(t, s, 2, "b")
	require.NoError(t, s.Users.Upsert(ctx, 3, "c", "c"))
	require.NoError(t, s.Users.SetReminders(ctx, 2, false))

	l1 := addLesson(t, s, "L1", "2025-01-15", "19:00")
	addLesson(t, s, "L2", "2025-01-22", "19:00")
	_, err := s.Attendance.Mark(ctx, 1, l1)
	require.NoError(t, err)
	_, err = s.Attendance.Mark(ctx, 2, l1)
	require.NoError(t, err)

	aID, err := s.Assignments.Add(ctx, domain.Assignment{CourseID: 1, Title: "A1", Question: "q", CorrectAnswer: "a"})
	require.NoError(t, err)
	_, _, err = s.Assignments.Submit(ctx, 1, aID, "a")
	require.NoError(t, err)

	stats, err := s.Stats.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.VerifiedUsers)
	assert.Equal(t, 1, stats.RemindersEnabled)
	require.Len(t, stats.AttendanceByLesson, 2)
	assert.Equal(t, 2, stats.AttendanceByLesson[0].Count)
	assert.Equal(t, 0, stats.AttendanceByLesson[1].Count)
	require.Len(t, stats.SubmissionsByAssignment, 1)
	assert.Equal(t, 1, stats.SubmissionsByAssignment[0].Count)
}

func TestPurgeHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	addVerifiedUser(t, s, 1, "a")

	sent, err := s.CustomReminders.Add(ctx, 1, "2025-01-15 19:00", "sent")
	require.NoError(t, err)
	require.NoError(t, s.CustomReminders.MarkSent(ctx, sent.ID))
	_, err = s.CustomReminders.Add(ctx, 1, "2025-01-16 19:00", "pending")
	require.NoError(t, err)
	_, err = s.Announcements.Add(ctx, "old news", true)
	require.NoError(t, err)

	n, err := s.CustomReminders.PurgeSent(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "rows newer than the cutoff are kept")

	n, err = s.CustomReminders.PurgeSent(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	pending, err := s.CustomReminders.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1, "unsent reminders are never purged")

	n, err = s.Announcements.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
