package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ModeGateway = "gateway"
	ModeHTTP    = "http"

	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token            string `env:"DISCORD_TOKEN,required,notEmpty"`
	AppID            string `env:"APP_ID,required,notEmpty"`
	GuildID          string `env:"GUILD_ID"`
	PublicKey        string `env:"PUBLIC_KEY"`
	InteractionsMode string `env:"INTERACTIONS_MODE" envDefault:"gateway"`
	HTTPAddr         string `env:"HTTP_ADDR" envDefault:":3000"`

	// Question of the day
	DailyChannelID string `env:"DAILY_CHANNEL_ID"`
	DailyPostTime  string `env:"DAILY_POST_TIME" envDefault:"07:00"`
	DailyTimezone  string `env:"DAILY_TIMEZONE" envDefault:"UTC"`
	LeetCodeURL    string `env:"LEETCODE_URL" envDefault:"https://leetcode.com/graphql"`

	// Active game housekeeping
	GameTTL           time.Duration `env:"GAME_TTL" envDefault:"24h"`
	GameSweepInterval time.Duration `env:"GAME_SWEEP_INTERVAL" envDefault:"10m"`

	// Match history
	StorageType           string `env:"STORAGE_TYPE" envDefault:"memory"`
	DataDir               string `env:"DATA_DIR" envDefault:"./data"`
	ElasticsearchURL      string `env:"ELASTICSEARCH_URL"`
	ElasticsearchUsername string `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPassword string `env:"ELASTICSEARCH_PASSWORD"`
	ElasticsearchIndex    string `env:"ELASTICSEARCH_INDEX" envDefault:"leetbot_matches"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development" or "production"
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	dailyHour   int
	dailyMinute int
	location    *time.Location
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if cfg.StorageType == StorageSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks mode-dependent requirements and derived values
func (c *Config) validate() error {
	switch c.InteractionsMode {
	case ModeGateway:
	case ModeHTTP:
		if c.PublicKey == "" {
			return fmt.Errorf("PUBLIC_KEY is required when INTERACTIONS_MODE=http")
		}
	default:
		return fmt.Errorf("INTERACTIONS_MODE must be %q or %q, got %q", ModeGateway, ModeHTTP, c.InteractionsMode)
	}

	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageMemory, StorageSQLite, c.StorageType)
	}

	hour, minute, err := parseClock(c.DailyPostTime)
	if err != nil {
		return fmt.Errorf("DAILY_POST_TIME: %w", err)
	}
	c.dailyHour, c.dailyMinute = hour, minute

	loc, err := time.LoadLocation(c.DailyTimezone)
	if err != nil {
		return fmt.Errorf("DAILY_TIMEZONE: %w", err)
	}
	c.location = loc

	if c.GameTTL < 0 {
		return fmt.Errorf("GAME_TTL must not be negative")
	}
	if c.GameTTL > 0 && c.GameSweepInterval <= 0 {
		return fmt.Errorf("GAME_SWEEP_INTERVAL must be positive when GAME_TTL is set")
	}
	return nil
}

// parseClock parses an "HH:MM" wall-clock time
func parseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsHTTPMode reports whether interactions arrive on the HTTP endpoint instead of the gateway
func (c *Config) IsHTTPMode() bool {
	return c.InteractionsMode == ModeHTTP
}

// DailyEnabled reports whether the question of the day should be posted
func (c *Config) DailyEnabled() bool {
	return c.DailyChannelID != ""
}

// DailyPostClock returns the parsed posting time. Only valid after Load.
func (c *Config) DailyPostClock() (hour, minute int) {
	return c.dailyHour, c.dailyMinute
}

// Location returns the timezone used for the daily post, UTC if unset
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SQLitePath is where the match history database lives
func (c *Config) SQLitePath() string {
	return strings.TrimRight(c.DataDir, "/") + "/leetbot.db"
}
