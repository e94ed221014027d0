package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/contre95/rawsolid/src/features/config"
)

// SetupLogger builds the application logger from the logger section of cfg.
func SetupLogger(cfg *config.Manager) *slog.Logger {
	return newLogger(os.Stderr, cfg.Get().Logger)
}

func newLogger(w io.Writer, cfg config.Logger) *slog.Logger {
	if !cfg.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "Rawsolid",
		Formatter:       formatter,
		Level:           parseLevel(cfg.Level),
	})

	logger := slog.New(handler)
	logger.Info("Logger initialized", "time", time.Now().Format(time.RFC3339))
	return logger
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
