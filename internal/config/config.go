package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys. Each is also read from the environment variable of the
// same name in upper case, e.g. DATABASE_DSN.
const (
	KeyDatabaseDriver   = "database_driver"
	KeyDatabaseDSN      = "database_dsn"
	KeyTotalQuestions   = "total_questions"
	KeyAsyncSave        = "async_save"
	KeyTelegramToken    = "telegram_bot_token"
	KeyReminderInterval = "reminder_interval"
	KeyLogLevel         = "log_level"
	KeySeed             = "seed"
)

type Config struct {
	DatabaseDriver   string
	DatabaseDSN      string
	TotalQuestions   int
	AsyncSave        bool
	TelegramToken    string
	ReminderInterval time.Duration
	LogLevel         string
	Seed             uint64 // 0 = seed from the clock
}

// New returns a viper instance with defaults and environment binding.
// A .env file in the working directory is loaded first if it exists.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyDatabaseDriver, "sqlite3")
	v.SetDefault(KeyDatabaseDSN, "data/levelup.db")
	v.SetDefault(KeyTotalQuestions, 20)
	v.SetDefault(KeyAsyncSave, true)
	v.SetDefault(KeyTelegramToken, "")
	v.SetDefault(KeyReminderInterval, 24*time.Hour)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySeed, 0)
	v.AutomaticEnv()
	return v
}

// Load reads and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseDriver:   v.GetString(KeyDatabaseDriver),
		DatabaseDSN:      v.GetString(KeyDatabaseDSN),
		TotalQuestions:   v.GetInt(KeyTotalQuestions),
		AsyncSave:        v.GetBool(KeyAsyncSave),
		TelegramToken:    v.GetString(KeyTelegramToken),
		ReminderInterval: v.GetDuration(KeyReminderInterval),
		LogLevel:         strings.ToLower(v.GetString(KeyLogLevel)),
		Seed:             v.GetUint64(KeySeed),
	}

	switch cfg.DatabaseDriver {
	case "sqlite3", "postgres":
	default:
		return nil, errors.Errorf("config: unsupported %s %q", KeyDatabaseDriver, cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.Errorf("config: %s is required", KeyDatabaseDSN)
	}
	if cfg.TotalQuestions <= 0 {
		return nil, errors.Errorf("config: %s must be positive, got %d", KeyTotalQuestions, cfg.TotalQuestions)
	}
	if cfg.ReminderInterval <= 0 {
		return nil, errors.Errorf("config: %s must be positive", KeyReminderInterval)
	}
	return cfg, nil
}

// NewLogger builds a text logger at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
