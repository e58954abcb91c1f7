package telegram

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/aatumaykin/coursebot/internal/channels"
	"github.com/aatumaykin/coursebot/internal/logger"
)

// SendToChat sends a text message. When Telegram rejects the MarkdownV2
// entities the message is sent once more as plain text.
func (c *Connector) SendToChat(ctx context.Context, chatID int64, text string, opts channels.SendOptions) error {
	bot, err := c.client()
	if err != nil {
		return err
	}

	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	}
	if opts.Markdown {
		params.ParseMode = telego.ModeMarkdownV2
	}
	if opts.DisablePreview {
		params.LinkPreviewOptions = &telego.LinkPreviewOptions{IsDisabled: true}
	}
	if kb := inlineKeyboard(opts.Keyboard); kb != nil {
		params.ReplyMarkup = kb
	}

	err = c.sendMessage(ctx, bot, params)
	if err == nil {
		return nil
	}

	details, ok := channels.NewTelegramErrorDetails(err, chatID)
	if ok && opts.Markdown && details.IsMarkupError() {
		c.logger.WarnCtx(ctx, "markdown rejected, resending as plain text", details.LogFields()...)
		params.ParseMode = ""
		params.Text = stripMarkdownV2(text)
		if err = c.sendMessage(ctx, bot, params); err == nil {
			return nil
		}
		details, ok = channels.NewTelegramErrorDetails(err, chatID)
	}
	if ok {
		return details
	}
	return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
}

// SendDocument uploads data as a file named filename.
func (c *Connector) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	bot, err := c.client()
	if err != nil {
		return err
	}

	sendCtx, cancel := c.sendContext(ctx)
	defer cancel()

	_, err = bot.SendDocument(sendCtx, &telego.SendDocumentParams{
		ChatID:   telego.ChatID{ID: chatID},
		Document: telego.InputFile{File: tu.NameReader(bytes.NewReader(data), filename)},
		Caption:  caption,
	})
	if err == nil {
		c.logger.DebugCtx(ctx, "document sent",
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "filename", Value: filename},
			logger.Field{Key: "size", Value: len(data)})
		return nil
	}
	if details, ok := channels.NewTelegramErrorDetails(err, chatID); ok {
		return details
	}
	return fmt.Errorf("failed to send document to chat %d: %w", chatID, err)
}

func (c *Connector) sendMessage(ctx context.Context, bot BotInterface, params *telego.SendMessageParams) error {
	sendCtx, cancel := c.sendContext(ctx)
	defer cancel()
	_, err := bot.SendMessage(sendCtx, params)
	return err
}

func (c *Connector) sendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.SendTimeoutSeconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(c.cfg.SendTimeoutSeconds)*time.Second)
}
