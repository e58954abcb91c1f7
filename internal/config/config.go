package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data, expands environment references and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandEnvVars(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// expandEnvVars расширяет переменные окружения в строковых полях
func expandEnvVars(c *Config) {
	c.Telegram.Token = expandEnv(c.Telegram.Token)
	c.Telegram.SupportChannel = expandEnv(c.Telegram.SupportChannel)
	c.Course.ActivationCode = expandEnv(c.Course.ActivationCode)
	c.Course.DefaultJoinLink = expandEnv(c.Course.DefaultJoinLink)
	c.Course.Timezone = expandEnv(c.Course.Timezone)
	c.Database.Path = expandHome(expandEnv(c.Database.Path))
	c.Metrics.ListenAddr = expandEnv(c.Metrics.ListenAddr)
	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))

	for i := range c.Schedule.Lessons {
		c.Schedule.Lessons[i].JoinLink = expandEnv(c.Schedule.Lessons[i].JoinLink)
	}
}

// Plain environment variables win over the file. They mirror the variable names
// deployments already use (BOT_TOKEN, ADMIN_USER_IDS, ...).
func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("ACTIVATION_CODE"); v != "" {
		c.Course.ActivationCode = v
	}
	if v := os.Getenv("ZOOM_LINK"); v != "" {
		c.Course.DefaultJoinLink = v
	}
	if v := os.Getenv("SUPPORT_CHANNEL"); v != "" {
		c.Telegram.SupportChannel = v
	}
	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return fmt.Errorf("ADMIN_USER_IDS: %w", err)
		}
		c.Telegram.AdminUserIDs = ids
	}
	if v := os.Getenv("GROUP_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("GROUP_ID: %w", err)
		}
		c.Telegram.GroupID = id
	}
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("ADMIN_CHAT_ID: %w", err)
		}
		c.Telegram.AdminChatID = id
	}
	return nil
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// expandEnv расширяет переменную окружения формата ${VAR} или ${VAR:default}
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	rest := s[end+1:]
	if key, def, ok := strings.Cut(content, ":"); ok {
		if val := os.Getenv(key); val != "" {
			return val + rest
		}
		return def + rest
	}

	return os.Getenv(content) + rest
}

// expandHome расширяет ~ в пути
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
