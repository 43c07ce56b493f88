package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	DataSource struct {
		// Kind selects the fetcher: "http", "file" or "feed".
		Kind     string `yaml:"kind" env:"DRAWSENTINEL_SOURCE"`
		BaseURL  string `yaml:"base_url" env:"DRAWSENTINEL_BASE_URL"`
		FeedURL  string `yaml:"feed_url" env:"DRAWSENTINEL_FEED_URL"`
		FilePath string `yaml:"file_path" env:"DRAWSENTINEL_FILE"`
		PageSize int    `yaml:"page_size" env:"DRAWSENTINEL_PAGE_SIZE"`
		MaxPages int    `yaml:"max_pages" env:"DRAWSENTINEL_MAX_PAGES"`
	} `yaml:"data_source"`
	Strategy struct {
		Seed           int64  `yaml:"seed" env:"DRAWSENTINEL_SEED"`
		BacktestWindow int    `yaml:"backtest_window" env:"DRAWSENTINEL_BACKTEST_WINDOW"`
		MinHistory     int    `yaml:"min_history" env:"DRAWSENTINEL_MIN_HISTORY"`
		WeightsFile    string `yaml:"weights_file" env:"DRAWSENTINEL_WEIGHTS_FILE"`
	} `yaml:"strategy"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" env:"CRON_REFRESH"`
		LearnCron   string `yaml:"learn_cron" env:"CRON_LEARN"`
	} `yaml:"schedule"`
	Web struct {
		Addr string `yaml:"addr" env:"DRAWSENTINEL_ADDR"`
	} `yaml:"web"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
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

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Kind == "" {
		if c.DataSource.BaseURL != "" {
			c.DataSource.Kind = "http"
		} else {
			c.DataSource.Kind = "file"
		}
	}
	if c.DataSource.PageSize == 0 {
		c.DataSource.PageSize = 100
	}
	if c.DataSource.MaxPages == 0 {
		c.DataSource.MaxPages = 50
	}
	if c.Strategy.Seed == 0 {
		c.Strategy.Seed = 42
	}
	if c.Strategy.BacktestWindow == 0 {
		c.Strategy.BacktestWindow = 50
	}
	if c.Strategy.MinHistory == 0 {
		c.Strategy.MinHistory = 30
	}
	if c.Strategy.WeightsFile == "" {
		c.Strategy.WeightsFile = "data/weights.json"
	}
	if c.Schedule.RefreshCron == "" {
		// Tuesday and Friday draws, picked up late evening.
		c.Schedule.RefreshCron = "0 30 23 * * 2,5"
	}
	if c.Schedule.LearnCron == "" {
		c.Schedule.LearnCron = "0 0 4 * * 0"
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/draw_sentinel.db"
	}
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case "http":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for http source")
		}
	case "feed":
		if c.DataSource.FeedURL == "" {
			return fmt.Errorf("data_source.feed_url is required for feed source")
		}
	case "file":
	default:
		return fmt.Errorf("data_source.kind %q is not one of http, file, feed", c.DataSource.Kind)
	}
	if c.DataSource.PageSize <= 0 || c.DataSource.MaxPages <= 0 {
		return fmt.Errorf("data_source.page_size and max_pages must be positive")
	}
	if c.Strategy.BacktestWindow <= 0 {
		return fmt.Errorf("strategy.backtest_window must be positive")
	}
	if c.Strategy.MinHistory <= 0 {
		return fmt.Errorf("strategy.min_history must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
