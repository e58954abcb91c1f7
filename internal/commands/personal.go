package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
	"github.com/aatumaykin/coursebot/internal/storage"
)

func (h *Handler) handleReminders(ctx context.Context, req Request) error {
	enabled, err := h.store.Users.ToggleReminders(ctx, req.UserID)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatRemindersToggled(enabled))
}

// handleSettings shows the settings, or changes one with "reminders on|off".
func (h *Handler) handleSettings(ctx context.Context, req Request) error {
	if args, err := parseSettingsArgs(req.Args); err == nil {
		enabled := args.Value == "on"
		if err := h.store.Users.SetReminders(ctx, req.UserID, enabled); err != nil {
			return err
		}
		return h.reply(ctx, req, messages.FormatRemindersToggled(enabled))
	}

	u, err := h.store.Users.Get(ctx, req.UserID)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatSettings(u.RemindersEnabled))
}

func (h *Handler) handleAddReminder(ctx context.Context, req Request) error {
	args, err := parseAddReminderArgs(req.Args)
	switch {
	case err != nil && args.Message == "" && args.Date == "":
		return err
	case invalidField(err, "Date", "Time"):
		return h.reply(ctx, req, constants.MsgReminderBadTime)
	case invalidField(err, "Message") && args.Message != "":
		return h.reply(ctx, req, fmt.Sprintf(constants.MsgReminderTooLong, constants.MaxReminderText))
	case err != nil:
		return err
	}

	remindAt := args.Date + " " + args.Time
	at, err := time.ParseInLocation(domain.DateTimeLayout, remindAt, h.location)
	if err != nil {
		return h.reply(ctx, req, constants.MsgReminderBadTime)
	}
	if !at.After(h.now()) {
		return h.reply(ctx, req, constants.MsgReminderInPast)
	}

	r, err := h.store.CustomReminders.Add(ctx, req.UserID, remindAt, args.Message)
	if err != nil {
		return err
	}
	if err := h.personal.Arm(r); err != nil {
		// Stays pending in storage and is armed on the next start.
		h.logger.WarnCtx(ctx, "failed to arm personal reminder",
			logger.Field{Key: "reminder_id", Value: r.ID},
			logger.Field{Key: "error", Value: err.Error()})
	}
	return h.reply(ctx, req, messages.FormatReminderCreated(r))
}

func (h *Handler) handleListReminders(ctx context.Context, req Request) error {
	list, err := h.store.CustomReminders.ListByUser(ctx, req.UserID)
	if err != nil {
		return err
	}
	return h.reply(ctx, req, messages.FormatReminderList(list))
}

func (h *Handler) handleDeleteReminder(ctx context.Context, req Request) error {
	args, err := parseIDArgs(req.Args)
	if err != nil {
		return err
	}
	if err := h.store.CustomReminders.Delete(ctx, req.UserID, args.ID); errors.Is(err, storage.ErrNotFound) {
		return h.reply(ctx, req, constants.MsgReminderNotFound)
	} else if err != nil {
		return err
	}
	h.personal.Cancel(args.ID)
	return h.reply(ctx, req, fmt.Sprintf(constants.MsgReminderDeleted, args.ID))
}

func (h *Handler) handleFeedback(ctx context.Context, req Request) error {
	return h.submitFeedback(ctx, req, domain.FeedbackGeneral)
}

func (h *Handler) handleReportBug(ctx context.Context, req Request) error {
	return h.submitFeedback(ctx, req, domain.FeedbackBug)
}

func (h *Handler) submitFeedback(ctx context.Context, req Request, kind domain.FeedbackKind) error {
	args, err := parseFeedbackArgs(req.Args)
	if invalidField(err, "Text") && args.Text != "" {
		return h.reply(ctx, req, fmt.Sprintf(constants.MsgFeedbackLength,
			constants.MinFeedbackLength, constants.MaxFeedbackLength))
	}
	if err != nil {
		return err
	}

	if _, err := h.store.Feedback.Add(ctx, req.UserID, kind, args.Text); err != nil {
		return err
	}
	if u, err := h.store.Users.Get(ctx, req.UserID); err == nil {
		h.notifyAdmins(ctx, messages.FormatFeedbackAdmin(u, kind, args.Text))
	}
	return h.reply(ctx, req, constants.MsgFeedbackThanks)
}
