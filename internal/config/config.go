package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds all application configuration.
//
// Values come from the YAML file first; any environment variable named in an env tag
// overrides the file.
type Config struct {
	Team string `yaml:"team" env:"HOTELSIM_TEAM"`

	Session struct {
		Store string        `yaml:"store" env:"SESSION_STORE"`
		Dir   string        `yaml:"dir" env:"SESSION_DIR"`
		TTL   time.Duration `yaml:"ttl" env:"SESSION_TTL"`
	} `yaml:"session"`
	Redis struct {
		Addr       string `yaml:"addr" env:"REDIS_ADDR"`
		Password   string `yaml:"password" env:"REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"REDIS_DB"`
		KeyPrefix  string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX"`
		MaxRetries uint64 `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	} `yaml:"redis"`
	Schedule struct {
		SeasonCron string `yaml:"season_cron" env:"CRON_SEASON"`
	} `yaml:"schedule"`
	DecisionsFile string `yaml:"decisions_file" env:"DECISIONS_FILE"`
	Database      struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Telegram struct {
		BotToken   string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
		ChatID     string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
		MaxRetries int    `yaml:"max_retries" env:"TELEGRAM_MAX_RETRIES"`
	} `yaml:"telegram"`
	Metrics struct {
		Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
		Port     int    `yaml:"port" env:"METRICS_PORT"`
		Endpoint string `yaml:"endpoint" env:"METRICS_ENDPOINT"`
	} `yaml:"metrics"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	Proxy    string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Team = strings.TrimSpace(c.Team)
	if c.Session.Store == "" {
		c.Session.Store = StoreFile
	}
	if c.Session.Dir == "" {
		c.Session.Dir = "data/sessions"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.MaxRetries == 0 {
		c.Redis.MaxRetries = 5
	}
	if c.Schedule.SeasonCron == "" {
		c.Schedule.SeasonCron = "0 0 9 * * 1"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/hotelsim.db"
	}
	if c.Telegram.MaxRetries == 0 {
		c.Telegram.MaxRetries = 3
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 8080
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = "/metrics"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// TelegramEnabled reports whether chat delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// Validate checks the whole config and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Team == "" {
		errs = append(errs, "team is required")
	}
	switch c.Session.Store {
	case StoreFile:
		if c.Session.Dir == "" {
			errs = append(errs, "session.dir is required for the file store")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required for the redis store")
		}
	default:
		errs = append(errs, fmt.Sprintf("session.store must be %q or %q, got %q", StoreFile, StoreRedis, c.Session.Store))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, "session.ttl must not be negative")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.SeasonCron); err != nil {
		errs = append(errs, fmt.Sprintf("schedule.season_cron is invalid: %v", err))
	}
	if c.TelegramEnabled() && c.Telegram.ChatID == "" {
		errs = append(errs, "telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Telegram.MaxRetries < 0 {
		errs = append(errs, "telegram.max_retries must not be negative")
	}
	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		errs = append(errs, "metrics.port must be in [1,65535]")
	}
	if !strings.HasPrefix(c.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("log_level is invalid: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
