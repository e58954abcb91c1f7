package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
)

func TestHandle_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	reply := env.run(t, studentID, "/dance")

	assert.Equal(t, constants.MsgUnknownCommand, reply)
	assert.Equal(t, ResultUnknown, env.recorder.lastResult())
}

func TestHandle_RateLimitedBeforeRegistration(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.deny[studentID] = true

	reply := env.run(t, studentID, "/start")

	assert.Equal(t, constants.MsgRateLimited, reply)
	assert.Equal(t, ResultRateLimited, env.recorder.lastResult())
	_, err := env.store.Users.Get(context.Background(), studentID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHandle_StartRegistersUser(t *testing.T) {
	env := newTestEnv(t)

	reply := env.run(t, studentID, "/start")

	assert.Contains(t, reply, "مرحبًا بك")
	u, err := env.store.Users.Get(context.Background(), studentID)
	require.NoError(t, err)
	assert.False(t, u.Verified)

	sent := env.responder.sentTo(studentID)
	require.Len(t, sent, 1)
	require.NotEmpty(t, sent[0].Opts.Keyboard)
	assert.Equal(t, constants.CallbackVerify, sent[0].Opts.Keyboard[0][0].Data)
}

func TestHandle_MemberCommandsRequireVerification(t *testing.T) {
	env := newTestEnv(t)

	reply := env.run(t, studentID, "/profile")

	assert.Contains(t, reply, "حسابك غير مفعل")
	assert.Equal(t, ResultDenied, env.recorder.lastResult())
}

func TestHandle_AdminCommandsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)

	reply := env.run(t, studentID, "/stats")

	assert.Equal(t, constants.MsgAdminOnly, reply)
}

func TestHandle_AdminBypassesVerification(t *testing.T) {
	env := newTestEnv(t)

	reply := env.run(t, adminID, "/profile")

	assert.Contains(t, reply, "ملفك الشخصي")
	assert.Equal(t, ResultOK, env.recorder.lastResult())
}

func TestHandle_Callback(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)
	ctx := context.Background()

	req := Request{UserID: studentID, ChatID: studentID, Command: constants.CallbackToggleReminders, CallbackID: "cb1"}
	require.NoError(t, env.handler.Handle(ctx, req))
	assert.Equal(t, constants.MsgRemindersOff, env.responder.last(t, studentID))

	req = Request{UserID: studentID, ChatID: studentID, Command: constants.CallbackSupport, CallbackID: "cb2"}
	require.NoError(t, env.handler.Handle(ctx, req))
	assert.Contains(t, env.responder.last(t, studentID), "الدعم والمساعدة")

	t.Run("callback only commands are not typed commands", func(t *testing.T) {
		assert.Equal(t, constants.MsgUnknownCommand, env.run(t, studentID, "/support"))
	})
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)

	assert.Contains(t, env.run(t, studentID, "/verify"), "كيفية استخدام أمر التفعيل")
	assert.Contains(t, env.run(t, studentID, "/verify WRONG"), "كود التفعيل غير صحيح")
	assert.Empty(t, env.responder.sentTo(adminChat))

	assert.Equal(t, constants.MsgVerifySuccess, env.run(t, studentID, "/verify OPEN-SESAME"))
	verified, err := env.store.Users.IsVerified(context.Background(), studentID)
	require.NoError(t, err)
	assert.True(t, verified)
	assert.Contains(t, env.responder.last(t, adminChat), "مستخدم جديد")

	assert.Equal(t, constants.MsgVerifyAlready, env.run(t, studentID, "/verify OPEN-SESAME"))
}

func TestAttendance(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)
	courseID := env.addCourse(t, "Fiqh")
	lessonID, err := env.store.Lessons.Add(context.Background(), domain.Lesson{
		CourseID: courseID, Title: "Intro", Date: "2025-01-11", Time: "18:00",
	})
	require.NoError(t, err)

	assert.Equal(t, messages.FormatUsage(constants.MsgAttendanceUsage), env.run(t, studentID, "/attendance"))
	assert.Equal(t, ResultInvalid, env.recorder.lastResult())

	assert.Equal(t, constants.MsgLessonNotFound, env.run(t, studentID, "/attendance 999"))
	assert.Contains(t, env.run(t, studentID, fmt.Sprintf("/attendance %d", lessonID)), "تم تسجيل حضورك")
	assert.Equal(t, constants.MsgAttendanceAlready, env.run(t, studentID, fmt.Sprintf("/attendance %d", lessonID)))
}

func TestSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)
	courseID := env.addCourse(t, "Fiqh")
	id, err := env.store.Assignments.Add(context.Background(), domain.Assignment{
		CourseID: courseID, Title: "Capital", Question: "Capital of Egypt?", CorrectAnswer: "Cairo",
	})
	require.NoError(t, err)

	assert.Equal(t, messages.FormatUsage(constants.MsgSubmitUsage), env.run(t, studentID, "/submit 1"))
	assert.Equal(t, constants.MsgAssignmentNotFound, env.run(t, studentID, "/submit 42 Cairo"))

	reply := env.run(t, studentID, fmt.Sprintf("/submit %d  cairo ", id))
	assert.Contains(t, reply, constants.MsgSubmitCorrect)

	n, err := env.store.Assignments.CountSubmissions(context.Background(), studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)

	assert.Equal(t, messages.FormatSettings(true), env.run(t, studentID, "/settings"))
	assert.Equal(t, constants.MsgRemindersOff, env.run(t, studentID, "/settings reminders off"))
	assert.Equal(t, messages.FormatSettings(false), env.run(t, studentID, "/settings"))
	assert.Equal(t, constants.MsgRemindersOn, env.run(t, studentID, "/reminders"))
}

func TestPersonalReminders(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)

	assert.Equal(t, messages.FormatUsage(constants.MsgAddReminderUsage), env.run(t, studentID, "/addreminder"))
	assert.Equal(t, constants.MsgReminderBadTime, env.run(t, studentID, "/addreminder 2025-13-01 18:00 review"))
	assert.Equal(t, constants.MsgReminderBadTime, env.run(t, studentID, "/addreminder 2025-01-11 6pm review"))
	assert.Equal(t, constants.MsgReminderInPast, env.run(t, studentID, "/addreminder 2025-01-10 11:59 review"))
	assert.Equal(t,
		fmt.Sprintf(constants.MsgReminderTooLong, constants.MaxReminderText),
		env.run(t, studentID, "/addreminder 2025-01-11 18:00 "+strings.Repeat("ب", constants.MaxReminderText+1)))
	assert.Empty(t, env.personal.armed)

	reply := env.run(t, studentID, "/addreminder 2025-01-11 18:00 review lesson two")
	assert.Contains(t, reply, "تم إضافة التذكير")
	require.Len(t, env.personal.armed, 1)
	armed := env.personal.armed[0]
	assert.Equal(t, "2025-01-11 18:00", armed.RemindAt)
	assert.Equal(t, "review lesson two", armed.Message)

	assert.Contains(t, env.run(t, studentID, "/listreminders"), "review lesson two")

	assert.Equal(t, constants.MsgReminderNotFound, env.run(t, adminID, fmt.Sprintf("/deletereminder %d", armed.ID)))
	assert.Equal(t,
		fmt.Sprintf(constants.MsgReminderDeleted, armed.ID),
		env.run(t, studentID, fmt.Sprintf("/deletereminder %d", armed.ID)))
	assert.Equal(t, []int64{armed.ID}, env.personal.cancelled)
	assert.Equal(t, constants.MsgRemindersEmpty, env.run(t, studentID, "/listreminders"))
}

func TestFeedback(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)

	assert.Equal(t, messages.FormatUsage(constants.MsgFeedbackUsage), env.run(t, studentID, "/feedback"))
	assert.Equal(t,
		fmt.Sprintf(constants.MsgFeedbackLength, constants.MinFeedbackLength, constants.MaxFeedbackLength),
		env.run(t, studentID, "/feedback ok"))

	assert.Equal(t, constants.MsgFeedbackThanks, env.run(t, studentID, "/reportbug the button does nothing"))
	assert.Contains(t, env.responder.last(t, adminChat), "the button does nothing")

	list, err := env.store.Feedback.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.FeedbackBug, list[0].Kind)

	assert.Contains(t, env.run(t, adminID, "/viewfeedback"), "the button does nothing")
}

func TestPublish(t *testing.T) {
	env := newTestEnv(t)

	text := messages.FormatAnnouncement("Exam moved to Sunday")
	env.notifier.On("Dispatch", mock.Anything, text, reminders.DispatchOptions{
		ToGroup:  true,
		Audience: reminders.AudienceReminders,
		Exclude:  []int64{adminID},
	}).Return(reminders.Result{Success: 3, Failed: 1, GroupAttempted: true, Recipients: 3}, nil).Once()

	reply := env.run(t, adminID, "/publish Exam moved to Sunday")

	assert.Equal(t, fmt.Sprintf(constants.MsgPublishResult, 3, 1), reply)
	env.notifier.AssertExpectations(t)
	require.Len(t, env.tasks.submitted, 1)
	assert.NotEmpty(t, env.tasks.submitted[0].ID)

	sent := env.responder.sentTo(adminID)
	require.Len(t, sent, 2)
	assert.Equal(t, constants.MsgProcessing, sent[0].Text)

	list, err := env.store.Announcements.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Exam moved to Sunday", list[0].Content)
}

func TestPublish_SkipsUsersWithRemindersOff(t *testing.T) {
	env := newTestEnv(t)
	env.handler.notifier = reminders.NewDispatcher(env.responder,
		reminders.NewRecipientResolver(env.store.Users), groupID, 0, logger.Nop())

	const optedOut int64 = 101
	env.verify(t, studentID)
	env.verify(t, optedOut)
	require.NoError(t, env.store.Users.SetReminders(context.Background(), optedOut, false))

	reply := env.run(t, adminID, "/publish Exam moved to Sunday")
	assert.Equal(t, fmt.Sprintf(constants.MsgPublishResult, 2, 0), reply)

	announcement := messages.FormatAnnouncement("Exam moved to Sunday")
	require.Len(t, env.responder.sentTo(studentID), 1)
	assert.Equal(t, announcement, env.responder.sentTo(studentID)[0].Text)
	assert.Empty(t, env.responder.sentTo(optedOut))

	group := env.responder.sentTo(groupID)
	require.Len(t, group, 1)
	assert.Equal(t, announcement, group[0].Text, "announcements carry no mentions")
}

func TestPublish_Validation(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, messages.FormatUsage(constants.MsgPublishUsage), env.run(t, adminID, "/publish   "))
	assert.Equal(t,
		fmt.Sprintf(constants.MsgPublishTooLong, constants.MaxPublishLength),
		env.run(t, adminID, "/publish "+strings.Repeat("a", constants.MaxPublishLength+1)))
	env.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_QueueFull(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.err = assert.AnError

	reply := env.run(t, adminID, "/publish hello")

	assert.Equal(t, messages.FormatGenericError("@support"), reply)
	assert.Equal(t, ResultError, env.recorder.lastResult())
}

func TestBroadcast(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, messages.FormatUsage(constants.MsgBroadcastUsage), env.run(t, adminID, "/broadcast everyone hi"))

	env.notifier.On("Dispatch", mock.Anything, messages.FormatBroadcast("hi all"),
		reminders.DispatchOptions{ToGroup: true, Audience: reminders.AudienceNone}).
		Return(reminders.Result{Success: 1, GroupAttempted: true, GroupDelivered: true}, nil).Once()
	assert.Equal(t, fmt.Sprintf(constants.MsgBroadcastResult, 1, 0), env.run(t, adminID, "/broadcast group hi all"))

	env.notifier.On("Dispatch", mock.Anything, messages.FormatBroadcast("hi users"),
		reminders.DispatchOptions{Audience: reminders.AudienceVerified}).
		Return(reminders.Result{Success: 4, Failed: 2, Recipients: 6}, nil).Once()
	assert.Equal(t, fmt.Sprintf(constants.MsgBroadcastResult, 4, 2), env.run(t, adminID, "/broadcast USERS hi users"))

	env.notifier.AssertExpectations(t)
}

func TestCourseAndLessonLifecycle(t *testing.T) {
	env := newTestEnv(t)

	reply := env.run(t, adminID, "/addcourse Tajweed | Reading rules")
	assert.Contains(t, reply, "تم إضافة الدورة")
	assert.Equal(t, constants.MsgCourseExists, env.run(t, adminID, "/addcourse Tajweed"))

	courses, err := env.store.Courses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	courseID := courses[0].ID
	assert.Equal(t, "Reading rules", courses[0].Description)

	assert.Equal(t, messages.FormatCourseUpdated(courseID, "Tajweed Advanced"),
		env.run(t, adminID, fmt.Sprintf("/updatecourse %d Tajweed Advanced | Level two", courseID)))
	assert.Equal(t, constants.MsgCourseNotFound, env.run(t, adminID, "/updatecourse 99 Other"))

	t.Run("addlesson validates input", func(t *testing.T) {
		assert.Equal(t, messages.FormatUsage(constants.MsgAddLessonUsage),
			env.run(t, adminID, fmt.Sprintf("/addlesson %d 2025-02-30x 18:00 Intro", courseID)))
		assert.Equal(t, messages.FormatUsage(constants.MsgAddLessonUsage),
			env.run(t, adminID, fmt.Sprintf("/addlesson %d 2025-02-01 18:00 Intro | not-a-url", courseID)))
		assert.Equal(t, constants.MsgCourseNotFound, env.run(t, adminID, "/addlesson 99 2025-02-01 18:00 Intro"))
	})

	reply = env.run(t, adminID, fmt.Sprintf("/addlesson %d 2025-02-01 18:00 Makharij | https://zoom.example/j/9", courseID))
	require.Len(t, env.lessons.added, 1)
	lesson := env.lessons.added[0]
	assert.NotZero(t, lesson.ID)
	assert.Equal(t, "Makharij", lesson.Title)
	assert.Equal(t, "https://zoom.example/j/9", lesson.JoinLink)
	assert.Equal(t, messages.FormatLessonCreated(lesson, 2), reply)

	reply = env.run(t, adminID, fmt.Sprintf("/deletecourse %d", courseID))
	assert.Equal(t, fmt.Sprintf(constants.MsgCourseDeleted, courseID, 1, 2), reply)
	assert.Equal(t, []string{lesson.Key()}, env.lessons.removed)
	assert.Equal(t, constants.MsgCourseNotFound, env.run(t, adminID, fmt.Sprintf("/deletecourse %d", courseID)))
}

func TestDeleteLesson(t *testing.T) {
	env := newTestEnv(t)
	courseID := env.addCourse(t, "Seerah")
	id, err := env.store.Lessons.Add(context.Background(), domain.Lesson{
		CourseID: courseID, Title: "Hijra", Date: "2025-02-01", Time: "18:00",
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf(constants.MsgLessonDeleted, id, 2), env.run(t, adminID, fmt.Sprintf("/deletelesson %d", id)))
	assert.Equal(t, []string{domain.Lesson{ID: id}.Key()}, env.lessons.removed)
	assert.Equal(t, constants.MsgLessonNotFound, env.run(t, adminID, fmt.Sprintf("/deletelesson %d", id)))
}

func TestAssignmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	courseID := env.addCourse(t, "Arabic")

	assert.Equal(t, messages.FormatUsage(constants.MsgAddAssignmentUsage), env.run(t, adminID, "/addassignment 1 | only title"))
	assert.Equal(t, constants.MsgCourseNotFound, env.run(t, adminID, "/addassignment 99 | T | Q | A"))

	reply := env.run(t, adminID, fmt.Sprintf("/addassignment %d | Plural | Plural of kitab? | kutub | 2025-02-01", courseID))
	assert.Contains(t, reply, "تم إضافة الواجب")

	list, err := env.store.Assignments.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID
	assert.Equal(t, "2025-02-01", list[0].Deadline)

	assert.Equal(t, messages.FormatUsage(constants.MsgUpdateAssignmentUsage),
		env.run(t, adminID, fmt.Sprintf("/updateassignment %d course_id 3", id)))
	assert.Equal(t, messages.FormatAssignmentUpdated(id, "title", "Plurals"),
		env.run(t, adminID, fmt.Sprintf("/updateassignment %d title Plurals", id)))
	assert.Equal(t, constants.MsgAssignmentNotFound, env.run(t, adminID, "/updateassignment 99 title X"))

	assert.Equal(t, fmt.Sprintf(constants.MsgAssignmentDeleted, id), env.run(t, adminID, fmt.Sprintf("/deleteassignment %d", id)))
	assert.Equal(t, constants.MsgAssignmentNotFound, env.run(t, adminID, fmt.Sprintf("/deleteassignment %d", id)))
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.verify(t, studentID)

	require.NoError(t, env.handler.Handle(context.Background(), Request{
		UserID: adminID, ChatID: adminID, Command: constants.CommandExport,
	}))

	require.Len(t, env.responder.documents, 1)
	doc := env.responder.documents[0]
	assert.Equal(t, adminID, doc.ChatID)
	assert.Equal(t, "users_20250110_120000.csv", doc.Filename)
	assert.Equal(t, fmt.Sprintf(constants.MsgExportCaption, 2), doc.Caption)

	lines := strings.Split(strings.TrimSpace(string(doc.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "user_id,username,first_name,joined_at,verified,reminders_enabled", lines[0])
}

func TestJobsAndHealth(t *testing.T) {
	env := newTestEnv(t)
	fireAt := time.Date(2025, 1, 11, 17, 0, 0, 0, time.UTC)
	env.lessons.jobs = []reminders.JobInfo{{
		Key:    "7_1h",
		Lesson: domain.Lesson{ID: 7, Title: "Intro"},
		Offset: reminders.LessonOffsets[1],
		FireAt: fireAt,
	}}

	reply := env.run(t, adminID, "/jobs")
	assert.Contains(t, reply, "Intro")
	assert.Contains(t, reply, messages.EscapeMarkdownV2("2025-01-11 17:00"))

	env.now = env.now.Add(90 * time.Second)
	reply = env.run(t, adminID, "/health")
	assert.Contains(t, reply, constants.MsgHealthOK)
	assert.Contains(t, reply, "1m30s")

	assert.Contains(t, env.run(t, adminID, "/stats"), "إحصائيات البوت")
}
