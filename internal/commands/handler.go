// Package commands routes bot commands and inline button presses to their handlers.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// Command results recorded by RecordCommand.
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultInvalid     = "invalid"
	ResultDenied      = "denied"
	ResultRateLimited = "rate_limited"
	ResultUnknown     = "unknown"
)

// Responder sends replies back to chats.
type Responder interface {
	channels.Sender
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

// LessonScheduler arms and cancels lesson reminders.
type LessonScheduler interface {
	AddLesson(lesson domain.Lesson) (int, error)
	RemoveLesson(key string) int
	Jobs() []reminders.JobInfo
}

// PersonalScheduler arms and cancels /addreminder reminders.
type PersonalScheduler interface {
	Arm(r domain.CustomReminder) error
	Cancel(id int64) bool
}

// Notifier fans a message out to the group and users.
type Notifier interface {
	Dispatch(ctx context.Context, message string, opts reminders.DispatchOptions) (reminders.Result, error)
}

// TaskRunner runs long commands off the update loop.
type TaskRunner interface {
	Submit(task workers.Task) error
	QueueSize() int
}

// RateLimiter throttles commands per user.
type RateLimiter interface {
	Allow(userID int64) bool
}

// Recorder counts handled commands.
type Recorder interface {
	RecordCommand(command, result string)
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Config    *config.Config
	Store     *storage.Store
	Responder Responder
	Lessons   LessonScheduler
	Personal  PersonalScheduler
	Notifier  Notifier
	Tasks     TaskRunner
	Limiter   RateLimiter
	Metrics   Recorder
	FAQ       []messages.FAQItem
	Location  *time.Location
	Now       func() time.Time
	Logger    *logger.Logger
}

type access int

const (
	accessPublic access = iota
	accessMember
	accessAdmin
)

type route struct {
	access       access
	usage        string
	callbackOnly bool
	handle       func(ctx context.Context, req Request) error
}

// Handler dispatches requests through rate limiting, registration and access
// checks before running the command.
type Handler struct {
	cfg       *config.Config
	store     *storage.Store
	responder Responder
	lessons   LessonScheduler
	personal  PersonalScheduler
	notifier  Notifier
	tasks     TaskRunner
	limiter   RateLimiter
	metrics   Recorder
	faq       []messages.FAQItem
	location  *time.Location
	now       func() time.Time
	logger    *logger.Logger
	started   time.Time
	routes    map[string]route
}

type nopRecorder struct{}

func (nopRecorder) RecordCommand(string, string) {}

// NewHandler creates a command handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		cfg:       d.Config,
		store:     d.Store,
		responder: d.Responder,
		lessons:   d.Lessons,
		personal:  d.Personal,
		notifier:  d.Notifier,
		tasks:     d.Tasks,
		limiter:   d.Limiter,
		metrics:   d.Metrics,
		faq:       messages.ResolveFAQ(d.FAQ),
		location:  d.Location,
		now:       d.Now,
		logger:    d.Logger,
	}
	if h.metrics == nil {
		h.metrics = nopRecorder{}
	}
	if h.location == nil {
		h.location = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.started = h.now()
	h.routes = h.buildRoutes()
	return h
}

func (h *Handler) buildRoutes() map[string]route {
	return map[string]route{
		constants.CommandStart:    {access: accessPublic, handle: h.handleStart},
		constants.CommandVerify:   {access: accessPublic, handle: h.handleVerify},
		constants.CommandHelp:     {access: accessPublic, handle: h.handleHelp},
		constants.CallbackVerify:  {access: accessPublic, callbackOnly: true, handle: h.handleVerifyHowTo},
		constants.CallbackSupport: {access: accessPublic, callbackOnly: true, handle: h.handleSupport},

		constants.CommandFAQ:             {access: accessMember, handle: h.handleFAQ},
		constants.CommandProfile:         {access: accessMember, handle: h.handleProfile},
		constants.CommandCourses:         {access: accessMember, handle: h.handleCourses},
		constants.CommandUpcomingLessons: {access: accessMember, handle: h.handleUpcomingLessons},
		constants.CommandAssignments:     {access: accessMember, handle: h.handleAssignments},
		constants.CommandAttendance:      {access: accessMember, usage: constants.MsgAttendanceUsage, handle: h.handleAttendance},
		constants.CommandSubmit:          {access: accessMember, usage: constants.MsgSubmitUsage, handle: h.handleSubmit},
		constants.CommandReminders:       {access: accessMember, handle: h.handleReminders},
		constants.CommandSettings:        {access: accessMember, handle: h.handleSettings},
		constants.CommandAddReminder:     {access: accessMember, usage: constants.MsgAddReminderUsage, handle: h.handleAddReminder},
		constants.CommandListReminders:   {access: accessMember, handle: h.handleListReminders},
		constants.CommandDeleteReminder:  {access: accessMember, usage: constants.MsgDeleteReminderUsage, handle: h.handleDeleteReminder},
		constants.CommandFeedback:        {access: accessMember, usage: constants.MsgFeedbackUsage, handle: h.handleFeedback},
		constants.CommandReportBug:       {access: accessMember, usage: constants.MsgReportBugUsage, handle: h.handleReportBug},

		constants.CommandStats:            {access: accessAdmin, handle: h.handleStats},
		constants.CommandPublish:          {access: accessAdmin, usage: constants.MsgPublishUsage, handle: h.handlePublish},
		constants.CommandBroadcast:        {access: accessAdmin, usage: constants.MsgBroadcastUsage, handle: h.handleBroadcast},
		constants.CommandAddCourse:        {access: accessAdmin, usage: constants.MsgAddCourseUsage, handle: h.handleAddCourse},
		constants.CommandUpdateCourse:     {access: accessAdmin, usage: constants.MsgUpdateCourseUsage, handle: h.handleUpdateCourse},
		constants.CommandDeleteCourse:     {access: accessAdmin, usage: constants.MsgDeleteCourseUsage, handle: h.handleDeleteCourse},
		constants.CommandAddLesson:        {access: accessAdmin, usage: constants.MsgAddLessonUsage, handle: h.handleAddLesson},
		constants.CommandDeleteLesson:     {access: accessAdmin, usage: constants.MsgDeleteLessonUsage, handle: h.handleDeleteLesson},
		constants.CommandAddAssignment:    {access: accessAdmin, usage: constants.MsgAddAssignmentUsage, handle: h.handleAddAssignment},
		constants.CommandUpdateAssignment: {access: accessAdmin, usage: constants.MsgUpdateAssignmentUsage, handle: h.handleUpdateAssignment},
		constants.CommandDeleteAssignment: {access: accessAdmin, usage: constants.MsgDeleteAssignmentUsage, handle: h.handleDeleteAssignment},
		constants.CommandViewFeedback:     {access: accessAdmin, handle: h.handleViewFeedback},
		constants.CommandExport:           {access: accessAdmin, handle: h.handleExport},
		constants.CommandJobs:             {access: accessAdmin, handle: h.handleJobs},
		constants.CommandHealth:           {access: accessAdmin, handle: h.handleHealth},
	}
}

// Handle processes one request. Failures are answered in chat; the returned
// error is reserved for replies that could not be delivered.
func (h *Handler) Handle(ctx context.Context, req Request) error {
	command := req.Command
	if req.CallbackID != "" {
		mapped, ok := CommandForCallback(command)
		if !ok {
			h.metrics.RecordCommand(ResultUnknown, ResultUnknown)
			return nil
		}
		command = mapped
	}

	if h.limiter != nil && !h.limiter.Allow(req.UserID) {
		h.logger.WarnCtx(ctx, "command rate limited",
			logger.Field{Key: "user_id", Value: req.UserID},
			logger.Field{Key: "command", Value: command})
		h.metrics.RecordCommand(command, ResultRateLimited)
		return h.reply(ctx, req, constants.MsgRateLimited)
	}

	if err := h.store.Users.Upsert(ctx, req.UserID, req.Username, req.FirstName); err != nil {
		h.logger.ErrorCtx(ctx, "failed to register user", err,
			logger.Field{Key: "user_id", Value: req.UserID})
		h.metrics.RecordCommand(command, ResultError)
		return h.reply(ctx, req, messages.FormatGenericError(h.cfg.Telegram.SupportChannel))
	}

	r, ok := h.routes[command]
	if !ok || (r.callbackOnly && req.CallbackID == "") {
		h.metrics.RecordCommand(ResultUnknown, ResultUnknown)
		return h.reply(ctx, req, constants.MsgUnknownCommand)
	}

	if denied, err := h.checkAccess(ctx, req, r.access); err != nil {
		h.logger.ErrorCtx(ctx, "failed to check access", err,
			logger.Field{Key: "user_id", Value: req.UserID})
		h.metrics.RecordCommand(command, ResultError)
		return h.reply(ctx, req, messages.FormatGenericError(h.cfg.Telegram.SupportChannel))
	} else if denied != "" {
		h.metrics.RecordCommand(command, ResultDenied)
		return h.reply(ctx, req, denied)
	}

	err := r.handle(ctx, req)
	switch {
	case err == nil:
		h.metrics.RecordCommand(command, ResultOK)
		return nil
	case errors.Is(err, errUsage):
		h.metrics.RecordCommand(command, ResultInvalid)
		return h.reply(ctx, req, messages.FormatUsage(r.usage))
	default:
		h.logger.ErrorCtx(ctx, "command failed", err,
			logger.Field{Key: "command", Value: command},
			logger.Field{Key: "user_id", Value: req.UserID})
		h.metrics.RecordCommand(command, ResultError)
		return h.reply(ctx, req, messages.FormatGenericError(h.cfg.Telegram.SupportChannel))
	}
}

// checkAccess returns the refusal to send, or "" when the request may proceed.
// Admins pass every check.
func (h *Handler) checkAccess(ctx context.Context, req Request, a access) (string, error) {
	if a == accessPublic || h.isAdmin(req) {
		return "", nil
	}
	if a == accessAdmin {
		return constants.MsgAdminOnly, nil
	}
	verified, err := h.store.Users.IsVerified(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if !verified {
		return fmt.Sprintf(constants.MsgNotVerified, messages.EscapeMarkdownV2(h.cfg.Telegram.SupportChannel)), nil
	}
	return "", nil
}

func (h *Handler) isAdmin(req Request) bool {
	return h.cfg.Telegram.IsAdmin(req.UserID)
}

func (h *Handler) reply(ctx context.Context, req Request, text string) error {
	return h.send(ctx, req.ChatID, text, nil)
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, keyboard [][]channels.Button) error {
	err := h.responder.SendToChat(ctx, chatID, text, channels.SendOptions{
		Markdown:       true,
		DisablePreview: true,
		Keyboard:       keyboard,
	})
	if err != nil {
		h.logger.ErrorCtx(ctx, "failed to send reply", err,
			logger.Field{Key: "chat_id", Value: chatID})
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// notifyAdmins posts to the admin chat when one is configured.
func (h *Handler) notifyAdmins(ctx context.Context, text string) {
	if h.cfg.Telegram.AdminChatID == 0 {
		return
	}
	if err := h.send(ctx, h.cfg.Telegram.AdminChatID, text, nil); err != nil {
		h.logger.WarnCtx(ctx, "admin notification not delivered",
			logger.Field{Key: "error", Value: err.Error()})
	}
}
