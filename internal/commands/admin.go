package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/version"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// fanOutTimeout bounds a /publish or /broadcast run on the worker pool.
const fanOutTimeout = 30 * time.Minute

func (h *Handler) handleStats(ctx context.Context, req Request) error {
	stats, err := h.store.Stats.Collect(ctx)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatStats(stats, len(h.lessons.Jobs())))
}

func (h *Handler) handlePublish(ctx context.Context, req Request) error {
	args, err := parsePublishArgs(req.Args)
	if invalidField(err, "Text") && args.Text != "" {
		return h.reply(ctx, req, fmt.Sprintf(constants.MsgPublishTooLong, constants.MaxPublishLength))
	}
	if err != nil {
		return err
	}

	if _, err := h.store.Announcements.Add(ctx, args.Text, h.cfg.Telegram.GroupID != 0); err != nil {
		return err
	}
	return h.fanOut(ctx, req, messages.FormatAnnouncement(args.Text), reminders.DispatchOptions{
		ToGroup:  true,
		Audience: reminders.AudienceReminders,
		Exclude:  []int64{req.UserID},
	}, constants.MsgPublishResult)
}

func (h *Handler) handleBroadcast(ctx context.Context, req Request) error {
	args, err := parseBroadcastArgs(req.Args)
	if err != nil {
		return err
	}

	opts := reminders.DispatchOptions{Audience: reminders.AudienceVerified}
	if args.Target == "group" {
		opts = reminders.DispatchOptions{ToGroup: true, Audience: reminders.AudienceNone}
	}
	return h.fanOut(ctx, req, messages.FormatBroadcast(args.Text), opts, constants.MsgBroadcastResult)
}

// fanOut acknowledges the admin, dispatches on the worker pool and reports
// the counts with resultFormat when done.
func (h *Handler) fanOut(ctx context.Context, req Request, text string, opts reminders.DispatchOptions, resultFormat string) error {
	if err := h.reply(ctx, req, constants.MsgProcessing); err != nil {
		return err
	}

	task := workers.Task{
		ID:      uuid.NewString(),
		Type:    workers.TaskTypeBroadcast,
		Timeout: fanOutTimeout,
		Run: func(taskCtx context.Context) error {
			res, err := h.notifier.Dispatch(taskCtx, text, opts)
			if err != nil {
				h.logger.ErrorCtx(taskCtx, "fan-out incomplete", err,
					logger.Field{Key: "admin_id", Value: req.UserID})
			}
			if sendErr := h.reply(taskCtx, req, fmt.Sprintf(resultFormat, res.Success, res.Failed)); sendErr != nil {
				return sendErr
			}
			return err
		},
	}
	if err := h.tasks.Submit(task); err != nil {
		return fmt.Errorf("failed to queue fan-out: %w", err)
	}
	h.logger.InfoCtx(ctx, "fan-out queued",
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "admin_id", Value: req.UserID})
	return nil
}

func (h *Handler) handleAddCourse(ctx context.Context, req Request) error {
	args, err := parseAddCourseArgs(req.Args)
	if err != nil {
		return err
	}
	id, err := h.store.Courses.Add(ctx, args.Name, args.Description)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return h.reply(ctx, req, constants.MsgCourseExists)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatCourseCreated(id, args.Name))
}

func (h *Handler) handleUpdateCourse(ctx context.Context, req Request) error {
	args, err := parseUpdateCourseArgs(req.Args)
	if err != nil {
		return err
	}
	err = h.store.Courses.Update(ctx, args.ID, args.Name, args.Description)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return h.reply(ctx, req, constants.MsgCourseNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		return h.reply(ctx, req, constants.MsgCourseExists)
	case err != nil:
		return err
	}
	return h.reply(ctx, req, messages.FormatCourseUpdated(args.ID, args.Name))
}

func (h *Handler) handleDeleteCourse(ctx context.Context, req Request) error {
	args, err := parseIDArgs(req.Args)
	if err != nil {
		return err
	}
	lessonIDs, err := h.store.Courses.Delete(ctx, args.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgCourseNotFound)
	}
	if err != nil {
		return err
	}

	cancelled := 0
	for _, id := range lessonIDs {
		cancelled += h.lessons.RemoveLesson(domain.Lesson{ID: id}.Key())
	}
	h.logger.InfoCtx(ctx, "course deleted",
		logger.Field{Key: "course_id", Value: args.ID},
		logger.Field{Key: "lessons", Value: len(lessonIDs)},
		logger.Field{Key: "cancelled_reminders", Value: cancelled})
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgCourseDeleted, args.ID, len(lessonIDs), cancelled))
}

func (h *Handler) handleAddLesson(ctx context.Context, req Request) error {
	args, err := parseLessonArgs(req.Args)
	if err != nil {
		return err
	}
	lesson := args.lesson()
	if err := lesson.Validate(); err != nil {
		return h.reply(ctx, req, messages.FormatLessonInvalid(err))
	}
	if _, err := h.store.Courses.Get(ctx, lesson.CourseID); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgCourseNotFound)
	} else if err != nil {
		return err
	}

	lesson.ID, err = h.store.Lessons.Add(ctx, lesson)
	if err != nil {
		return err
	}
	armed, err := h.lessons.AddLesson(lesson)
	if err != nil {
		h.logger.WarnCtx(ctx, "lesson stored but reminders not armed",
			logger.Field{Key: "lesson_id", Value: lesson.ID},
			logger.Field{Key: "error", Value: err.Error()})
	}
	return h.reply(ctx, req, messages.FormatLessonCreated(lesson, armed))
}

func (h *Handler) handleDeleteLesson(ctx context.Context, req Request) error {
	args, err := parseIDArgs(req.Args)
	if err != nil {
		return err
	}
	if err := h.store.Lessons.Delete(ctx, args.ID); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgLessonNotFound)
	} else if err != nil {
		return err
	}
	cancelled := h.lessons.RemoveLesson(domain.Lesson{ID: args.ID}.Key())
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgLessonDeleted, args.ID, cancelled))
}

func (h *Handler) handleAddAssignment(ctx context.Context, req Request) error {
	args, err := parseAssignmentArgs(req.Args)
	if err != nil {
		return err
	}
	if _, err := h.store.Courses.Get(ctx, args.CourseID); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgCourseNotFound)
	} else if err != nil {
		return err
	}

	a := args.assignment()
	a.ID, err = h.store.Assignments.Add(ctx, a)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatAssignmentCreated(a))
}

func (h *Handler) handleUpdateAssignment(ctx context.Context, req Request) error {
	args, err := parseUpdateAssignmentArgs(req.Args)
	if err != nil {
		return err
	}
	if err := h.store.Assignments.Update(ctx, args.ID, args.Field, args.Value); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgAssignmentNotFound)
	} else if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatAssignmentUpdated(args.ID, args.Field, args.Value))
}

func (h *Handler) handleDeleteAssignment(ctx context.Context, req Request) error {
	args, err := parseIDArgs(req.Args)
	if err != nil {
		return err
	}
	if err := h.store.Assignments.Delete(ctx, args.ID); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgAssignmentNotFound)
	} else if err != nil {
		return err
	}
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgAssignmentDeleted, args.ID))
}

func (h *Handler) handleViewFeedback(ctx context.Context, req Request) error {
	list, err := h.store.Feedback.ListRecent(ctx, constants.FeedbackListLimit)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatFeedbackList(list))
}

// handleExport sends every registered user as a CSV document.
func (h *Handler) handleExport(ctx context.Context, req Request) error {
	users, err := h.store.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return h.reply(ctx, req, constants.MsgExportEmpty)
	}

	data, err := usersCSV(users)
	if err != nil {
		return err
	}
	filename := "users_" + h.now().In(h.location).Format("20060102_150405") + ".csv"
	caption := fmt.Sprintf(constants.MsgExportCaption, len(users))
	if err := h.responder.SendDocument(ctx, req.ChatID, filename, data, caption); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	return nil
}

func usersCSV(users []domain.User) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"user_id", "username", "first_name", "joined_at", "verified", "reminders_enabled"})
	for _, u := range users {
		_ = w.Write([]string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.FirstName,
			u.JoinedAt.Format(time.RFC3339),
			strconv.FormatBool(u.Verified),
			strconv.FormatBool(u.RemindersEnabled),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write users csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *Handler) handleJobs(ctx context.Context, req Request) error {
	infos := h.lessons.Jobs()
	jobs := make([]messages.ScheduledJob, 0, len(infos))
	for _, j := range infos {
		jobs = append(jobs, messages.ScheduledJob{
			Title:       j.Lesson.Title,
			OffsetLabel: j.Offset.Label,
			FireAt:      j.FireAt.In(h.location),
		})
	}
	return h.reply(ctx, req, messages.FormatJobs(jobs))
}

func (h *Handler) handleHealth(ctx context.Context, req Request) error {
	return h.reply(ctx, req, messages.FormatHealth(messages.Health{
		DatabaseErr: h.store.DB.Ping(ctx),
		ArmedJobs:   len(h.lessons.Jobs()),
		QueuedTasks: h.tasks.QueueSize(),
		Uptime:      h.now().Sub(h.started),
		Version:     version.Version,
	}))
}
