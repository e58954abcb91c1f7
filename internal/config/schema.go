// Package config provides configuration loading and validation for coursebot.
// It supports TOML configuration files with environment variable expansion,
// .env files, default values, and validation.
//
// Configuration structure:
//   - [telegram]: Bot token, admins, group and admin chats
//   - [course]: Course name, activation code, default join link, timezone
//   - [database]: SQLite database path
//   - [reminders]: Lesson reminder delivery settings
//   - [rate_limit]: Per-user command limits
//   - [workers]: Worker pool sizing
//   - [metrics]: Prometheus endpoint
//   - [logging]: Logging level, format, and output
//   - [[schedule.lessons]]: Static lessons merged with the database
//   - [[faq]]: FAQ entries overriding the built-in list
//
// Environment variables:
// String values can reference environment variables using ${VAR} or ${VAR:default}.
// For example: token = "${BOT_TOKEN}"
package config

import (
	"fmt"
	"time"
)

// Config represents the main application configuration.
type Config struct {
	Telegram  TelegramConfig  `toml:"telegram"`
	Course    CourseConfig    `toml:"course"`
	Database  DatabaseConfig  `toml:"database"`
	Reminders RemindersConfig `toml:"reminders"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Workers   WorkersConfig   `toml:"workers"`
	Retention RetentionConfig `toml:"retention"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Logging   LoggingConfig   `toml:"logging"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	FAQ       []FAQEntry      `toml:"faq"`
}

// TelegramConfig представляет конфигурацию Telegram бота
type TelegramConfig struct {
	Token              string  `toml:"token"`
	AdminUserIDs       []int64 `toml:"admin_user_ids"`
	GroupID            int64   `toml:"group_id"`
	AdminChatID        int64   `toml:"admin_chat_id"`
	SupportChannel     string  `toml:"support_channel"`
	PollTimeoutSeconds int     `toml:"poll_timeout_seconds"`
	SendTimeoutSeconds int     `toml:"send_timeout_seconds"`
}

// IsAdmin reports whether userID is listed in admin_user_ids.
func (t TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range t.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CourseConfig представляет настройки курса
type CourseConfig struct {
	Name            string `toml:"name"`
	ActivationCode  string `toml:"activation_code"`
	DefaultJoinLink string `toml:"default_join_link"`
	Timezone        string `toml:"timezone"`
}

// Location returns the timezone lessons are scheduled in.
func (c CourseConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid course.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabaseConfig представляет конфигурацию SQLite
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RemindersConfig представляет настройки напоминаний о занятиях
type RemindersConfig struct {
	Disabled       bool   `toml:"disabled"`
	SendDelayMs    int    `toml:"send_delay_ms"`
	ResyncSchedule string `toml:"resync_schedule"`
}

// SendDelay is the pause between two individual reminder sends.
func (r RemindersConfig) SendDelay() time.Duration {
	return time.Duration(r.SendDelayMs) * time.Millisecond
}

// RateLimitConfig представляет ограничения частоты команд на пользователя
type RateLimitConfig struct {
	PerMinute int `toml:"per_minute"`
	PerHour   int `toml:"per_hour"`
}

// WorkersConfig представляет конфигурацию worker pool
type WorkersConfig struct {
	PoolSize  int `toml:"pool_size"`
	QueueSize int `toml:"queue_size"`
}

// RetentionConfig управляет очисткой старой истории
type RetentionConfig struct {
	Disabled bool   `toml:"disabled"`
	KeepDays int    `toml:"keep_days"`
	Schedule string `toml:"schedule"`
}

// MetricsConfig представляет конфигурацию Prometheus endpoint
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// ScheduleConfig holds lessons declared directly in the config file.
type ScheduleConfig struct {
	Lessons []LessonConfig `toml:"lessons"`
}

// LessonConfig is a static lesson. It has no database id and is keyed by title and date.
type LessonConfig struct {
	CourseID int64  `toml:"course_id"`
	Title    string `toml:"title"`
	Date     string `toml:"date"`
	Time     string `toml:"time"`
	JoinLink string `toml:"join_link"`
}

// FAQEntry is a single question/answer pair shown by /faq.
type FAQEntry struct {
	Question string `toml:"question"`
	Answer   string `toml:"answer"`
}
