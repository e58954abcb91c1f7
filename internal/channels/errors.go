// Package channels holds transport-independent helpers shared by chat connectors.
package channels

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego/telegoapi"

	"github.com/aatumaykin/coursebot/internal/logger"
)

// TelegramErrorDetails - детализация ошибки Telegram API
type TelegramErrorDetails struct {
	ErrorCode     int    // Код ошибки (400, 403, 429 и т.д.)
	Description   string // Описание ошибки от Telegram
	RetryAfterSec int    // Задержка в секундах (для rate limiting)
	ChatID        int64
	Timestamp     time.Time
	cause         error
}

// NewTelegramErrorDetails extracts API error details from err. The second result is
// false when err did not come from the Telegram API.
func NewTelegramErrorDetails(err error, chatID int64) (*TelegramErrorDetails, bool) {
	var apiErr *telegoapi.Error
	if !errors.As(err, &apiErr) {
		return nil, false
	}

	d := &TelegramErrorDetails{
		ErrorCode:   apiErr.ErrorCode,
		Description: apiErr.Description,
		ChatID:      chatID,
		Timestamp:   time.Now(),
		cause:       err,
	}
	if apiErr.Parameters != nil {
		d.RetryAfterSec = apiErr.Parameters.RetryAfter
	}
	return d, true
}

func (d *TelegramErrorDetails) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", d.ErrorCode, d.Description)
}

func (d *TelegramErrorDetails) Unwrap() error {
	return d.cause
}

// IsRetryable проверяет, можно ли повторить отправку
func (d *TelegramErrorDetails) IsRetryable() bool {
	return d.ErrorCode == 429 || (d.ErrorCode >= 500 && d.ErrorCode < 600)
}

// IsBlocked reports that the user blocked the bot or never started it.
func (d *TelegramErrorDetails) IsBlocked() bool {
	return d.ErrorCode == 403
}

// IsMarkupError reports a MarkdownV2 entity parsing failure.
func (d *TelegramErrorDetails) IsMarkupError() bool {
	return d.ErrorCode == 400 && strings.Contains(strings.ToLower(d.Description), "can't parse entities")
}

// RetryAfter возвращает задержку перед повторной отправкой
func (d *TelegramErrorDetails) RetryAfter() time.Duration {
	if d.RetryAfterSec > 0 {
		return time.Duration(d.RetryAfterSec) * time.Second
	}
	if d.ErrorCode >= 500 && d.ErrorCode < 600 {
		return 5 * time.Second
	}
	return 0
}

// LogFields возвращает поля для структурированного логирования
func (d *TelegramErrorDetails) LogFields() []logger.Field {
	return []logger.Field{
		{Key: "error_code", Value: d.ErrorCode},
		{Key: "error_description", Value: d.Description},
		{Key: "retry_after", Value: d.RetryAfterSec},
		{Key: "chat_id", Value: d.ChatID},
	}
}
