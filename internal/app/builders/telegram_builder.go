package builders

import (
	"github.com/aatumaykin/coursebot/internal/channels/telegram"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/logger"
)

type TelegramBuilder struct {
	config *config.Config
	logger *logger.Logger
	opts   []telegram.Option
}

func NewTelegramBuilder(cfg *config.Config, log *logger.Logger, opts ...telegram.Option) *TelegramBuilder {
	return &TelegramBuilder{
		config: cfg,
		logger: log,
		opts:   opts,
	}
}

// Build creates the connector without a handler. The command handler needs
// the connector as its responder, so it is attached with SetHandler before Start.
func (b *TelegramBuilder) Build() *telegram.Connector {
	return telegram.New(
		b.config.Telegram,
		nil,
		b.logger.With(logger.Field{Key: "component", Value: "telegram"}),
		b.opts...,
	)
}
