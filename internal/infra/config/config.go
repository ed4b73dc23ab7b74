package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notification channel selectors.
const (
	NotifyChannelEmail    = "email"
	NotifyChannelTelegram = "telegram"
	NotifyChannelLog      = "log"
)

// AppConfig holds all configuration for the service.
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string

	// Scheduling
	CronSpecReconcile string        // daily reconciliation trigger
	RunTimeout        time.Duration // upper bound for one full run
	WorkerCount       int           // properties reconciled concurrently

	// Trigger surface
	HTTPListenAddr string

	// Bank feed
	AkahuBaseURL string
	AkahuTimeout time.Duration

	// Notifications
	NotifyChannel string // email, telegram or log
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	TelegramToken string
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv.Load will not override variables already set.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecReconcile = os.Getenv("CRON_SPEC_RECONCILE")
	if cfg.CronSpecReconcile == "" {
		cfg.CronSpecReconcile = "0 8 * * *" // 08:00 local, daily
	}

	cfg.RunTimeout, err = durationEnv("RUN_TIMEOUT", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.WorkerCount, err = intEnv("WORKER_COUNT", 4)
	if err != nil {
		return nil, err
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", cfg.WorkerCount)
	}

	cfg.HTTPListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}

	cfg.AkahuBaseURL = os.Getenv("AKAHU_BASE_URL")
	if cfg.AkahuBaseURL == "" {
		cfg.AkahuBaseURL = "https://api.akahu.nz/v1"
	}

	cfg.AkahuTimeout, err = durationEnv("AKAHU_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.NotifyChannel = strings.ToLower(os.Getenv("NOTIFY_CHANNEL"))
	if cfg.NotifyChannel == "" {
		cfg.NotifyChannel = NotifyChannelEmail
	}
	switch cfg.NotifyChannel {
	case NotifyChannelEmail, NotifyChannelTelegram, NotifyChannelLog:
	default:
		return nil, fmt.Errorf("invalid NOTIFY_CHANNEL: %q", cfg.NotifyChannel)
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	cfg.SMTPPort, err = intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.NotifyChannel == NotifyChannelTelegram && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set but NOTIFY_CHANNEL is telegram")
	}

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
