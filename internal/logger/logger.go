package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spacecworp-pix-gateway/internal/config"
)

// NewLogger creates a JSON slog.Logger configured from the application
// config. Every record carries the service name so the gateway and the
// expiry worker can share a log stream.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the noise when debugging
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("service", cfg.Application.Name)
	logger.Info("logger initialized", "level", level)

	return logger
}
