package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errs []error

	// Telegram
	if c.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram.token is required"))
	} else if err := validateTelegramToken(c.Telegram.Token); err != nil {
		errs = append(errs, err)
	}
	if len(c.Telegram.AdminUserIDs) == 0 {
		errs = append(errs, fmt.Errorf("telegram.admin_user_ids must contain at least one id"))
	}
	for _, id := range c.Telegram.AdminUserIDs {
		if id <= 0 {
			errs = append(errs, fmt.Errorf("telegram.admin_user_ids contains invalid id %d", id))
		}
	}
	if c.Telegram.PollTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout_seconds must be >= 0"))
	}

	// Course
	if strings.TrimSpace(c.Course.ActivationCode) == "" {
		errs = append(errs, fmt.Errorf("course.activation_code is required"))
	}
	if _, err := c.Course.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}

	// Reminders
	if c.Reminders.SendDelayMs < 0 {
		errs = append(errs, fmt.Errorf("reminders.send_delay_ms must be >= 0"))
	}
	if c.Reminders.ResyncSchedule != "" {
		if _, err := cron.ParseStandard(c.Reminders.ResyncSchedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid reminders.resync_schedule %q: %w", c.Reminders.ResyncSchedule, err))
		}
	}

	if c.Retention.KeepDays < 1 {
		errs = append(errs, fmt.Errorf("retention.keep_days must be >= 1"))
	}
	if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid retention.schedule %q: %w", c.Retention.Schedule, err))
	}

	if c.RateLimit.PerMinute < 1 || c.RateLimit.PerHour < 1 {
		errs = append(errs, fmt.Errorf("rate_limit.per_minute and rate_limit.per_hour must be >= 1"))
	}
	if c.Workers.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("workers.pool_size must be >= 1"))
	}

	for i, l := range c.Schedule.Lessons {
		errs = append(errs, validateLesson(i, l)...)
	}

	for i, f := range c.FAQ {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			errs = append(errs, fmt.Errorf("faq[%d]: question and answer are required", i))
		}
	}

	errs = append(errs, validateLogging(c.Logging)...)

	return errs
}

func validateLesson(i int, l LessonConfig) []error {
	var errs []error
	if strings.TrimSpace(l.Title) == "" {
		errs = append(errs, fmt.Errorf("schedule.lessons[%d].title is required", i))
	}
	if _, err := time.Parse("2006-01-02", l.Date); err != nil {
		errs = append(errs, fmt.Errorf("schedule.lessons[%d].date %q must be YYYY-MM-DD", i, l.Date))
	}
	if _, err := time.Parse("15:04", l.Time); err != nil {
		errs = append(errs, fmt.Errorf("schedule.lessons[%d].time %q must be HH:MM", i, l.Time))
	}
	return errs
}

func validateLogging(l LoggingConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(l.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", l.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(l.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", l.Format))
	}

	if l.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}
	return errs
}

func validateTelegramToken(token string) error {
	botID, secret, ok := strings.Cut(token, ":")
	if !ok || strings.Contains(secret, ":") {
		return fmt.Errorf("telegram token has invalid format (expected format: <bot_id>:<token>, got: %s)", maskSecret(token))
	}

	if len(botID) < 3 || len(botID) > 15 {
		return fmt.Errorf("telegram token has invalid bot ID length (expected 3-15 digits, got %d digits)", len(botID))
	}
	for _, r := range botID {
		if r < '0' || r > '9' {
			return fmt.Errorf("telegram token has invalid bot ID (expected digits only, got: %s)", botID)
		}
	}

	if len(secret) < 10 || len(secret) > 50 {
		return fmt.Errorf("telegram token has invalid token length (expected 10-50 characters, got %d)", len(secret))
	}

	return nil
}
