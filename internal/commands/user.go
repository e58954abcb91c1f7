package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/storage"
)

func startKeyboard(verified bool) [][]channels.Button {
	if !verified {
		return [][]channels.Button{
			{{Text: constants.BtnVerify, Data: constants.CallbackVerify}, {Text: constants.BtnSupport, Data: constants.CallbackSupport}},
			{{Text: constants.BtnFAQ, Data: constants.CommandFAQ}, {Text: constants.BtnHelp, Data: constants.CommandHelp}},
		}
	}
	return [][]channels.Button{
		{{Text: constants.BtnProfile, Data: constants.CommandProfile}, {Text: constants.BtnCourses, Data: constants.CommandCourses}},
		{{Text: constants.BtnAssignments, Data: constants.CommandAssignments}, {Text: constants.BtnReminders, Data: constants.CallbackToggleReminders}},
		{{Text: constants.BtnFAQ, Data: constants.CommandFAQ}, {Text: constants.BtnHelp, Data: constants.CommandHelp}},
	}
}

func (h *Handler) handleStart(ctx context.Context, req Request) error {
	verified, err := h.store.Users.IsVerified(ctx, req.UserID)
	if err != nil {
		return err
	}
	text := messages.FormatStart(verified, h.cfg.Telegram.SupportChannel)
	return h.send(ctx, req.ChatID, text, startKeyboard(verified || h.isAdmin(req)))
}

func (h *Handler) handleVerify(ctx context.Context, req Request) error {
	support := messages.EscapeMarkdownV2(h.cfg.Telegram.SupportChannel)

	verified, err := h.store.Users.IsVerified(ctx, req.UserID)
	if err != nil {
		return err
	}
	if verified {
		return h.reply(ctx, req, constants.MsgVerifyAlready)
	}

	args, err := parseVerifyArgs(req.Args)
	if err != nil {
		return h.reply(ctx, req, fmt.Sprintf(constants.MsgVerifyUsage, support))
	}
	if args.Code != h.cfg.Course.ActivationCode {
		h.logger.InfoCtx(ctx, "wrong activation code",
			logger.Field{Key: "user_id", Value: req.UserID})
		return h.reply(ctx, req, fmt.Sprintf(constants.MsgVerifyWrongCode, support))
	}

	if err := h.store.Users.Verify(ctx, req.UserID); err != nil {
		return err
	}
	h.logger.InfoCtx(ctx, "user verified", logger.Field{Key: "user_id", Value: req.UserID})

	if u, err := h.store.Users.Get(ctx, req.UserID); err == nil {
		h.notifyAdmins(ctx, messages.FormatAdminNewUser(u))
	}
	return h.reply(ctx, req, constants.MsgVerifySuccess)
}

func (h *Handler) handleVerifyHowTo(ctx context.Context, req Request) error {
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgVerifyHowTo,
		messages.EscapeMarkdownV2(h.cfg.Telegram.SupportChannel)))
}

func (h *Handler) handleSupport(ctx context.Context, req Request) error {
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgSupport,
		messages.EscapeMarkdownV2(h.cfg.Telegram.SupportChannel)))
}

func (h *Handler) handleHelp(ctx context.Context, req Request) error {
	verified, err := h.store.Users.IsVerified(ctx, req.UserID)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatHelp(verified, h.isAdmin(req), h.cfg.Telegram.SupportChannel))
}

func (h *Handler) handleFAQ(ctx context.Context, req Request) error {
	return h.reply(ctx, req, messages.FormatFAQ(h.faq, h.cfg.Telegram.SupportChannel))
}

func (h *Handler) handleProfile(ctx context.Context, req Request) error {
	u, err := h.store.Users.Get(ctx, req.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgProfileNotFound)
	}
	if err != nil {
		return err
	}
	attended, err := h.store.Attendance.CountByUser(ctx, req.UserID)
	if err != nil {
		return err
	}
	submissions, err := h.store.Assignments.CountSubmissions(ctx, req.UserID)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatProfile(messages.Profile{
		User:        u,
		Attended:    attended,
		Submissions: submissions,
	}, h.cfg.Telegram.SupportChannel))
}

func (h *Handler) handleCourses(ctx context.Context, req Request) error {
	courses, err := h.store.Courses.List(ctx)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatCourses(courses))
}

func (h *Handler) handleUpcomingLessons(ctx context.Context, req Request) error {
	lessons, err := h.store.Lessons.ListUpcoming(ctx, h.now().In(h.location), constants.UpcomingLimit)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatUpcomingLessons(lessons))
}

func (h *Handler) handleAssignments(ctx context.Context, req Request) error {
	list, err := h.store.Assignments.List(ctx)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatAssignments(list))
}

func (h *Handler) handleAttendance(ctx context.Context, req Request) error {
	args, err := parseIDArgs(req.Args)
	if err != nil {
		return err
	}
	lesson, err := h.store.Lessons.Get(ctx, args.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgLessonNotFound)
	}
	if err != nil {
		return err
	}
	recorded, err := h.store.Attendance.Mark(ctx, req.UserID, lesson.ID)
	if err != nil {
		return err
	}
	if !recorded {
		return h.reply(ctx, req, constants.MsgAttendanceAlready)
	}
	return h.reply(ctx, req, messages.FormatAttendanceRecorded(lesson))
}

func (h *Handler) handleSubmit(ctx context.Context, req Request) error {
	args, err := parseSubmitArgs(req.Args)
	if err != nil {
		return err
	}
	sub, assignment, err := h.store.Assignments.Submit(ctx, req.UserID, args.AssignmentID, args.Answer)
	if errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgAssignmentNotFound)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatSubmission(sub, assignment))
}
