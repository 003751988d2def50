// Package telemetry builds the process logger and the OpenTelemetry tracer
// provider from configuration.
package telemetry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/security"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a slog.Logger configured by cfg whose output passes
// through redactor. The returned closer releases the log file, if any.
func NewLogger(cfg config.LogConfig, redactor *security.Redactor) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out, closer = rotated, rotated
	}

	return slog.New(security.NewRedactingHandler(newHandler(out, cfg.Format, level), redactor)), closer, nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
