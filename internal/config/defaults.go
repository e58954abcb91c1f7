package config

const (
	DefaultDatabasePath       = "data/bot.db"
	DefaultTimezone           = "Local"
	DefaultSendDelayMs        = 100
	DefaultResyncSchedule     = "0 */6 * * *"
	DefaultRatePerMinute      = 30
	DefaultRatePerHour        = 100
	DefaultPoolSize           = 4
	DefaultQueueSize          = 256
	DefaultMetricsListenAddr  = "127.0.0.1:9464"
	DefaultRetentionDays      = 90
	DefaultRetentionSchedule  = "30 3 * * *"
	DefaultPollTimeoutSeconds = 30
	DefaultSendTimeoutSeconds = 15
)

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Telegram.PollTimeoutSeconds == 0 {
		c.Telegram.PollTimeoutSeconds = DefaultPollTimeoutSeconds
	}
	if c.Telegram.SendTimeoutSeconds == 0 {
		c.Telegram.SendTimeoutSeconds = DefaultSendTimeoutSeconds
	}

	if c.Course.Timezone == "" {
		c.Course.Timezone = DefaultTimezone
	}

	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	if c.Reminders.SendDelayMs == 0 {
		c.Reminders.SendDelayMs = DefaultSendDelayMs
	}
	if c.Reminders.ResyncSchedule == "" {
		c.Reminders.ResyncSchedule = DefaultResyncSchedule
	}

	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = DefaultRatePerMinute
	}
	if c.RateLimit.PerHour == 0 {
		c.RateLimit.PerHour = DefaultRatePerHour
	}

	if c.Workers.PoolSize == 0 {
		c.Workers.PoolSize = DefaultPoolSize
	}
	if c.Workers.QueueSize == 0 {
		c.Workers.QueueSize = DefaultQueueSize
	}

	if c.Retention.KeepDays == 0 {
		c.Retention.KeepDays = DefaultRetentionDays
	}
	if c.Retention.Schedule == "" {
		c.Retention.Schedule = DefaultRetentionSchedule
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = DefaultMetricsListenAddr
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}
