// Package telegram connects the bot to Telegram using the Telego library.
// It turns updates into command requests and delivers outgoing messages.
//
// Features:
//   - Long polling for messages and inline button presses
//   - MarkdownV2 sends with a plain text fallback
//   - Bot menu registration
//   - Graceful shutdown handling
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/commands"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/retry"
)

// ErrNotStarted is returned by sends before Start succeeded.
var ErrNotStarted = errors.New("telegram connector is not started")

const answerCallbackTimeout = 5 * time.Second

// RequestHandler processes requests built from updates.
type RequestHandler interface {
	Handle(ctx context.Context, req commands.Request) error
}

// BotFactory creates the bot API client for a token.
type BotFactory func(token string) (BotInterface, error)

// Option configures a Connector.
type Option func(*Connector)

// WithBotFactory replaces the telego client, mainly for tests.
func WithBotFactory(f BotFactory) Option {
	return func(c *Connector) { c.newBot = f }
}

// Connector represents the Telegram bot connector
type Connector struct {
	cfg     config.TelegramConfig
	handler RequestHandler
	logger  *logger.Logger
	newBot  BotFactory

	mu       sync.RWMutex
	bot      BotInterface
	username string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Telegram connector
func New(cfg config.TelegramConfig, handler RequestHandler, log *logger.Logger, opts ...Option) *Connector {
	c := &Connector{
		cfg:     cfg,
		handler: handler,
		logger:  log,
		newBot: func(token string) (BotInterface, error) {
			bot, err := telego.NewBot(token)
			if err != nil {
				return nil, err
			}
			return NewBotAdapter(bot), nil
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHandler sets the request handler. It must be called before Start.
func (c *Connector) SetHandler(h RequestHandler) {
	c.handler = h
}

// Start initializes the Telegram bot and starts listening for updates
func (c *Connector) Start(ctx context.Context) error {
	c.logger.Info("starting telegram connector")

	if c.cfg.Token == "" {
		return fmt.Errorf("invalid config: telegram token is required")
	}
	if c.handler == nil {
		return fmt.Errorf("telegram connector has no request handler")
	}

	bot, err := c.newBot(c.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)

	var me *telego.User
	err = retry.Do(c.ctx, retry.Config{
		MaxAttempts: 3,
		Operation:   "telegram getMe",
		Logger:      c.logger,
	}, func(ctx context.Context) error {
		var getErr error
		me, getErr = bot.GetMe(ctx)
		if details, ok := channels.NewTelegramErrorDetails(getErr, 0); ok {
			return details
		}
		return getErr
	})
	if err != nil {
		c.cancel()
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	c.mu.Lock()
	c.bot = bot
	c.username = me.Username
	c.mu.Unlock()

	c.logger.Info("telegram bot initialized",
		logger.Field{Key: "bot_id", Value: me.ID},
		logger.Field{Key: "username", Value: me.Username})

	if err := c.registerCommands(); err != nil {
		c.logger.ErrorCtx(c.ctx, "failed to register bot commands", err)
	}

	timeout := c.cfg.PollTimeoutSeconds
	if timeout <= 0 {
		timeout = config.DefaultPollTimeoutSeconds
	}
	updates, err := bot.UpdatesViaLongPolling(c.ctx, &telego.GetUpdatesParams{
		Timeout:        timeout,
		AllowedUpdates: []string{"message", "callback_query"},
	})
	if err != nil {
		c.cancel()
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	c.wg.Add(1)
	go c.poll(updates)
	return nil
}

// Stop gracefully stops the Telegram connector
func (c *Connector) Stop() error {
	c.logger.Info("stopping telegram connector")
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.logger.Info("telegram connector stopped gracefully")
	return nil
}

func (c *Connector) poll(updates <-chan telego.Update) {
	defer c.wg.Done()
	c.logger.Info("long polling for telegram updates")

	for {
		select {
		case <-c.ctx.Done():
			c.logger.Info("long polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				c.logger.Info("updates channel closed")
				return
			}
			c.handleUpdate(update)
		}
	}
}

// handleUpdate routes one update to the request handler. Updates that are
// not commands or inline button presses are ignored.
func (c *Connector) handleUpdate(update telego.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorCtx(c.ctx, "update handler panicked", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "update_id", Value: update.UpdateID})
		}
	}()

	req, ok := c.requestFromUpdate(update)
	if !ok {
		return
	}
	if req.CallbackID != "" {
		c.answerCallback(req.CallbackID)
	}

	c.logger.DebugCtx(c.ctx, "handling request",
		logger.Field{Key: "user_id", Value: req.UserID},
		logger.Field{Key: "chat_id", Value: req.ChatID},
		logger.Field{Key: "command", Value: req.Command})

	if err := c.handler.Handle(c.ctx, req); err != nil {
		c.logger.ErrorCtx(c.ctx, "failed to handle request", err,
			logger.Field{Key: "user_id", Value: req.UserID},
			logger.Field{Key: "command", Value: req.Command})
	}
}

func (c *Connector) requestFromUpdate(update telego.Update) (commands.Request, bool) {
	if q := update.CallbackQuery; q != nil {
		chatID := q.From.ID
		if q.Message != nil {
			if chat := q.Message.GetChat(); chat.ID != 0 {
				chatID = chat.ID
			}
		}
		return commands.Request{
			UserID:     q.From.ID,
			Username:   q.From.Username,
			FirstName:  q.From.FirstName,
			ChatID:     chatID,
			Command:    q.Data,
			CallbackID: q.ID,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return commands.Request{}, false
	}
	if c.addressedElsewhere(msg.Text) {
		return commands.Request{}, false
	}
	command, args, ok := commands.ParseCommand(msg.Text)
	if !ok {
		return commands.Request{}, false
	}
	return commands.Request{
		UserID:    msg.From.ID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
		ChatID:    msg.Chat.ID,
		Command:   command,
		Args:      args,
	}, true
}

// addressedElsewhere reports whether a "/cmd@bot" command names another bot.
func (c *Connector) addressedElsewhere(text string) bool {
	head := strings.Fields(text)
	if len(head) == 0 {
		return false
	}
	_, mention, found := strings.Cut(head[0], "@")
	if !found {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !strings.EqualFold(mention, c.username)
}

func (c *Connector) answerCallback(id string) {
	bot, err := c.client()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.ctx, answerCallbackTimeout)
	defer cancel()
	if err := bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: id}); err != nil {
		c.logger.WarnCtx(c.ctx, "failed to answer callback query",
			logger.Field{Key: "callback_query_id", Value: id},
			logger.Field{Key: "error", Value: err.Error()})
	}
}

func (c *Connector) client() (BotInterface, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bot == nil {
		return nil, ErrNotStarted
	}
	return c.bot, nil
}

// menuCommands are shown in the Telegram command menu.
var menuCommands = []telego.BotCommand{
	{Command: constants.CommandStart, Description: "بدء استخدام البوت"},
	{Command: constants.CommandVerify, Description: "تفعيل الحساب"},
	{Command: constants.CommandProfile, Description: "ملفي الشخصي"},
	{Command: constants.CommandUpcomingLessons, Description: "الدروس القادمة"},
	{Command: constants.CommandAssignments, Description: "الواجبات"},
	{Command: constants.CommandReminders, Description: "تشغيل أو إيقاف التذكيرات"},
	{Command: constants.CommandFAQ, Description: "الأسئلة الشائعة"},
	{Command: constants.CommandHelp, Description: "المساعدة"},
}

// registerCommands registers bot commands with Telegram
func (c *Connector) registerCommands() error {
	bot, err := c.client()
	if err != nil {
		return err
	}
	if err := bot.SetMyCommands(c.ctx, &telego.SetMyCommandsParams{Commands: menuCommands}); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	c.logger.Info("bot commands registered successfully")
	return nil
}
