package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/timetable-import/internal/config"
)

// New builds the process logger from cfg and installs it as the slog default.
// Records are written to stderr and mirrored into sink when sink is non-nil.
func New(cfg config.LogConfig, sink *Sink) *slog.Logger {
	return newLogger(os.Stderr, cfg, sink)
}

func newLogger(w io.Writer, cfg config.LogConfig, sink *Sink) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	if sink != nil {
		handler = sink.Wrap(handler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, warn and error to their slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
