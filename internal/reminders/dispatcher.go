package reminders

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/messages"
)

// Recipients resolves who receives individual sends.
type Recipients interface {
	ActiveRecipients(ctx context.Context) ([]int64, error)
	VerifiedRecipients(ctx context.Context) ([]int64, error)
}

// Audience selects the users that receive individual sends.
type Audience int

const (
	// AudienceReminders is verified users with reminders enabled.
	AudienceReminders Audience = iota
	// AudienceVerified is every verified user.
	AudienceVerified
	// AudienceNone sends to the group only.
	AudienceNone
)

// DispatchOptions controls a single Dispatch call.
type DispatchOptions struct {
	ToGroup  bool
	Audience Audience
	// Mentions appends invisible mentions of the recipients to the group text.
	Mentions bool
	// Exclude drops these user ids from the individual sends.
	Exclude []int64
}

// Result aggregates one dispatch. Success+Failed equals Recipients plus one
// when the group send was attempted.
type Result struct {
	Success        int
	Failed         int
	GroupAttempted bool
	GroupDelivered bool
	Recipients     int
}

// Dispatcher sends a rendered message to the group and to individual users,
// one send at a time, waiting on a shared rate gate between sends.
type Dispatcher struct {
	sender     channels.Sender
	recipients Recipients
	groupID    int64
	gate       *rate.Limiter
	observer   Observer
	logger     *logger.Logger
}

// NewDispatcher creates a dispatcher. groupID 0 disables group sends; a
// non-positive delay disables the gate.
func NewDispatcher(sender channels.Sender, recipients Recipients, groupID int64, delay time.Duration, log *logger.Logger) *Dispatcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Dispatcher{
		sender:     sender,
		recipients: recipients,
		groupID:    groupID,
		gate:       rate.NewLimiter(limit, 1),
		observer:   nopObserver{},
		logger:     log,
	}
}

// SetObserver replaces the activity observer.
func (d *Dispatcher) SetObserver(o Observer) {
	if o != nil {
		d.observer = o
	}
}

// Dispatch delivers message. Failed sends are counted and logged and never
// stop the batch. Sends are not retried. An error is returned when recipients
// cannot be resolved or ctx ends before the batch completes; the counts
// gathered so far are returned with it.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, opts DispatchOptions) (Result, error) {
	started := time.Now()
	defer func() { d.observer.DispatchDuration(time.Since(started)) }()

	var res Result
	ids, resolveErr := d.resolve(ctx, opts)

	if opts.ToGroup && d.groupID != 0 {
		res.GroupAttempted = true
		groupText := message
		if opts.Mentions {
			groupText = messages.FormatGroupMessage(message, ids)
		}
		if err := d.send(ctx, d.groupID, groupText, TargetGroup); err != nil {
			res.Failed++
		} else {
			res.GroupDelivered = true
			res.Success++
		}
	}

	if resolveErr != nil {
		d.logger.Error("failed to resolve reminder recipients", resolveErr)
		return res, fmt.Errorf("failed to resolve recipients: %w", resolveErr)
	}

	res.Recipients = len(ids)
	for i, id := range ids {
		if err := d.send(ctx, id, message, TargetUser); err != nil {
			if ctx.Err() != nil {
				res.Failed += len(ids) - i
				return res, ctx.Err()
			}
			res.Failed++
			continue
		}
		res.Success++
	}

	d.logger.Info("dispatch finished",
		logger.Field{Key: "recipients", Value: res.Recipients},
		logger.Field{Key: "success", Value: res.Success},
		logger.Field{Key: "failed", Value: res.Failed},
		logger.Field{Key: "group_delivered", Value: res.GroupDelivered})
	return res, nil
}

func (d *Dispatcher) resolve(ctx context.Context, opts DispatchOptions) ([]int64, error) {
	var (
		ids []int64
		err error
	)
	switch opts.Audience {
	case AudienceNone:
		return nil, nil
	case AudienceVerified:
		ids, err = d.recipients.VerifiedRecipients(ctx)
	default:
		ids, err = d.recipients.ActiveRecipients(ctx)
	}
	if err != nil || len(opts.Exclude) == 0 {
		return ids, err
	}

	skip := make(map[int64]struct{}, len(opts.Exclude))
	for _, id := range opts.Exclude {
		skip[id] = struct{}{}
	}
	kept := ids[:0]
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text, target string) error {
	if err := d.gate.Wait(ctx); err != nil {
		d.observer.ReminderSent(target, false)
		return err
	}
	err := d.sender.SendToChat(ctx, chatID, text, channels.ReminderSendOptions)
	d.observer.ReminderSent(target, err == nil)
	if err != nil {
		d.logger.Warn("failed to deliver message",
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "target", Value: target},
			logger.Field{Key: "error", Value: err.Error()})
	}
	return err
}
