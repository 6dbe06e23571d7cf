package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	Analytics AnalyticsConfig
	Archive   ArchiveConfig
	Export    ExportConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// APIConfig points at the upstream loom backend.
type APIConfig struct {
	BaseURL string
}

// SessionConfig controls where the cached session pair is stored.
type SessionConfig struct {
	Dir string
}

// AnalyticsConfig holds the snapshot refresh schedule and window.
type AnalyticsConfig struct {
	CronSchedule string
	WindowDays   int
}

// ArchiveConfig holds optional MongoDB settings for the salary slip archive.
// The archive is enabled only when URI is set.
type ArchiveConfig struct {
	URI    string
	DBName string
}

// ExportConfig holds optional Google Sheets settings for slip export. Export
// is enabled only when both fields are set.
type ExportConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	windowDays, err := getenvInt("ANALYTICS_WINDOW_DAYS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		API: APIConfig{
			BaseURL: getenvWithDefault("LOOM_API_BASE_URL", "http://localhost:8000/api/v1"),
		},
		Session: SessionConfig{
			Dir: getenvWithDefault("SESSION_DIR", ".loomdesk"),
		},
		Analytics: AnalyticsConfig{
			CronSchedule: getenvWithDefault("ANALYTICS_CRON_SCHEDULE", "0 6 * * *"),
			WindowDays:   windowDays,
		},
		Archive: ArchiveConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "loomdesk"),
		},
		Export: ExportConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// optional subsystems are either fully configured or fully absent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.API.BaseURL == "" {
		return errors.New("LOOM_API_BASE_URL must be provided")
	}

	if c.Session.Dir == "" {
		return errors.New("SESSION_DIR must not be empty")
	}

	if c.Analytics.CronSchedule == "" {
		return errors.New("ANALYTICS_CRON_SCHEDULE must be provided")
	}
	if c.Analytics.WindowDays <= 0 {
		return errors.New("ANALYTICS_WINDOW_DAYS must be positive")
	}

	if c.Archive.Enabled() && c.Archive.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if (c.Export.CredentialsPath == "") != (c.Export.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be set together")
	}

	return nil
}

// Enabled reports whether the slip archive should be wired.
func (c ArchiveConfig) Enabled() bool {
	return c.URI != ""
}

// Enabled reports whether the slip export should be wired.
func (c ExportConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
