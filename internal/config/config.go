// Package config provides configuration management for the investment client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServiceConfig holds remote service connection configuration.
type ServiceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DashboardConfig holds dashboard view configuration.
type DashboardConfig struct {
	Symbols      []string `mapstructure:"symbols"`       // market panel symbols
	SignalLimit  int      `mapstructure:"signal_limit"`  // top-N active signals
	AlertLimit   int      `mapstructure:"alert_limit"`   // top-N unread alerts
	DataInterval string   `mapstructure:"data_interval"` // 1m, 5m, 15m, 1h, 4h, 1d
}

// AlertsConfig holds alert-monitor configuration.
type AlertsConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/investctl"
	}
	return filepath.Join(home, ".config", "investctl")
}

// SessionPath returns the path of the persisted session file.
func SessionPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "session.json")
}

// JournalPath returns the path of the local activity journal database.
func JournalPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "activity.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// No config file yet, write the template so the user can edit it.
		if werr := writeTemplate(configDir); werr != nil {
			return nil, fmt.Errorf("creating config template: %w", werr)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.base_url", "http://localhost:8000")
	v.SetDefault("service.request_timeout", 30*time.Second)
	v.SetDefault("dashboard.symbols", []string{"AAPL", "MSFT", "BTC"})
	v.SetDefault("dashboard.signal_limit", 5)
	v.SetDefault("dashboard.alert_limit", 5)
	v.SetDefault("dashboard.data_interval", "1d")
	v.SetDefault("alerts.poll_interval", 60*time.Second)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("ui.time_format", "15:04:05")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INVESTCTL_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("INVESTCTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("INVESTCTL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Alerts.PollInterval = d
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url must be set")
	}
	if !strings.HasPrefix(c.Service.BaseURL, "http://") && !strings.HasPrefix(c.Service.BaseURL, "https://") {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q", c.Service.BaseURL)
	}
	if c.Service.RequestTimeout <= 0 {
		return fmt.Errorf("service.request_timeout must be positive")
	}
	if c.Alerts.PollInterval < time.Second {
		return fmt.Errorf("alerts.poll_interval must be at least 1s")
	}
	if len(c.Dashboard.Symbols) == 0 {
		return fmt.Errorf("dashboard.symbols must not be empty")
	}
	if c.Dashboard.SignalLimit <= 0 || c.Dashboard.AlertLimit <= 0 {
		return fmt.Errorf("dashboard limits must be positive")
	}
	switch c.Dashboard.DataInterval {
	case "1m", "5m", "15m", "1h", "4h", "1d":
	default:
		return fmt.Errorf("dashboard.data_interval must be one of 1m, 5m, 15m, 1h, 4h, 1d")
	}
	return nil
}
