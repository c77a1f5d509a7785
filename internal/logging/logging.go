// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"investctl/internal/config"
)

// NewLogger creates a logger from the application logging configuration.
// The log file lives under the config directory.
func NewLogger(configDir string, cfg config.LoggingConfig) zerolog.Logger {
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Join(configDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(logDir, "investctl.log"),
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithView adds a view name to the logger context.
func WithView(logger zerolog.Logger, view string) zerolog.Logger {
	return logger.With().Str("view", view).Logger()
}

// WithWorkflow adds a workflow name to the logger context.
func WithWorkflow(logger zerolog.Logger, workflow string) zerolog.Logger {
	return logger.With().Str("workflow", workflow).Logger()
}

// LogRequest logs an outbound API call.
func LogRequest(logger zerolog.Logger, method, path string, status int, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "api_call").
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("API call failed")
	} else {
		event.Msg("API call completed")
	}
}

// LogPoll logs one alert-monitor poll cycle.
func LogPoll(logger zerolog.Logger, hasUnread bool, err error) {
	if err != nil {
		logger.Warn().Str("event", "alert_poll").Err(err).Msg("Alert poll failed")
		return
	}
	logger.Debug().Str("event", "alert_poll").Bool("has_unread", hasUnread).Msg("Alert poll completed")
}

// LogSessionEvent logs a session lifecycle change.
func LogSessionEvent(logger zerolog.Logger, event, reason string) {
	logger.Info().Str("event", "session").Str("change", event).Str("reason", reason).Msg("Session state changed")
}
