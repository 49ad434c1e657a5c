package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken       string
	DatabaseURL         string
	LogLevel            string
	Environment         string
	CronSpecReminders   string         // Daily job sending due renewal reminders
	Location            *time.Location // Defines "today" for users and the cron engine
	DefaultCurrency     string
	DefaultReminderDays int // -1 when new subscriptions start with reminders off
	BotPollTimeout      time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing file is fine.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))
	cfg.CronSpecReminders = getEnv("CRON_SPEC_REMINDERS", "0 9 * * *") // 09:00 daily

	tz := getEnv("TIMEZONE", "UTC")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.DefaultCurrency = strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD"))
	if len(cfg.DefaultCurrency) != 3 {
		return nil, fmt.Errorf("invalid DEFAULT_CURRENCY %q: expected a 3-letter ISO code", cfg.DefaultCurrency)
	}

	reminderDays := getEnv("DEFAULT_REMINDER_DAYS", "1")
	if strings.EqualFold(reminderDays, "off") {
		cfg.DefaultReminderDays = -1
	} else {
		cfg.DefaultReminderDays, err = strconv.Atoi(reminderDays)
		if err != nil || cfg.DefaultReminderDays < 0 || cfg.DefaultReminderDays > 30 {
			return nil, fmt.Errorf("invalid DEFAULT_REMINDER_DAYS %q: expected 0 to 30 or off", reminderDays)
		}
	}

	pollTimeout := getEnv("BOT_POLL_TIMEOUT", "10s")
	cfg.BotPollTimeout, err = time.ParseDuration(pollTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid BOT_POLL_TIMEOUT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
