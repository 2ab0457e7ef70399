// Package logger builds the application slog.Logger.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how records are written.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"
	Output io.Writer

	File FileOptions

	// SentryEnabled forwards error records to the Sentry hub configured by sentry.Init.
	SentryEnabled bool
}

// FileOptions enables a rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates the application logger. The returned LevelVar can be used to change the level at runtime,
// and the closer releases the log file when one is configured.
func New(opts Options) (*slog.Logger, *slog.LevelVar, io.Closer) {
	level := new(slog.LevelVar)
	level.Set(opts.Level)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{newHandler(opts.Format, out, handlerOpts)}

	var closer io.Closer = nopCloser{}
	if opts.File.Path != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotating, handlerOpts))
		closer = rotating
	}

	if opts.SentryEnabled {
		handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	var root slog.Handler = handlers[0]
	if len(handlers) > 1 {
		root = &fanoutHandler{handlers: handlers}
	}

	return slog.New(NewMaskingHandler(root)), level, closer
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// fanoutHandler delivers each record to every handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h.handlers {
		if next.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, next := range h.handlers {
		if !next.Enabled(ctx, record.Level) {
			continue
		}
		if err := next.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
