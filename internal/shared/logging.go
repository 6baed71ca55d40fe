package shared

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger configures the process-wide logger from the config's logging
// section. Diagnostics go to stderr; stdout is reserved for command output.
func InitLogger(format, level string) *slog.Logger {
	logger := NewLogger(os.Stderr, format, level)
	slog.SetDefault(logger)
	return logger
}

// NewLogger builds a logger writing to w. Unknown levels fall back to info,
// unknown formats to JSON.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
