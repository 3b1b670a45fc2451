package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger builds a JSON logger. Records go to stdout unless silent, and to
// logFile when one is set. The TUI passes silent because it owns the
// terminal. With no destination left the logger discards everything.
func NewLogger(debug bool, logFile string, silent bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var sinks []slog.Handler
	if !silent {
		sinks = append(sinks, slog.NewJSONHandler(os.Stdout, opts))
	}
	if logFile != "" {
		w, err := openLogFile(logFile)
		if err != nil {
			slog.Error("Failed to open log file", "path", logFile, "error", err)
		} else {
			sinks = append(sinks, slog.NewJSONHandler(w, opts))
		}
	}

	switch len(sinks) {
	case 0:
		return slog.New(slog.NewJSONHandler(io.Discard, opts))
	case 1:
		return slog.New(sinks[0])
	}
	return slog.New(fanout(sinks))
}

// InitLogger installs NewLogger's result as the slog default.
func InitLogger(debug bool, logFile string, silent bool) *slog.Logger {
	logger := NewLogger(debug, logFile, silent)
	slog.SetDefault(logger)
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// fanout sends each record to every sink enabled for its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle keeps writing after a failing sink and reports every failure.
func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}

// LogInfo logs through the default logger.
func LogInfo(msg string, args ...any) {
	slog.Info(msg, args...)
}

// LogError logs msg with err attached under "error".
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}
