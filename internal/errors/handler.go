package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/podcast-bot/pkg/logger"
	"github.com/Proton-105/podcast-bot/pkg/metrics"
)

// Translator resolves message keys; i18n.Catalog satisfies it.
type Translator interface {
	T(key string) string
}

// Handler turns errors into a log entry, an optional Sentry event and the text shown to the user.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
	tr            Translator
}

func NewHandler(log *slog.Logger, sentryEnabled bool, tr Translator) *Handler {
	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
		tr:            tr,
	}
}

// Handle reports err and returns the reply text and whether the failure is retryable.
// A nil Handler logs to slog.Default and replies with untranslated keys.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if h == nil {
		h = &Handler{}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := h.log
	if log == nil {
		log = slog.Default()
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		attrs := []slog.Attr{
			slog.String("code", appErr.Code),
			slog.String("message", appErr.Message),
			slog.String("severity", string(appErr.Severity)),
			slog.Bool("retryable", appErr.Retryable),
		}

		if cause := appErr.Cause(); cause != nil {
			attrs = append(attrs, slog.String("cause", cause.Error()))
		}

		if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
			attrs = append(attrs, slog.String("correlation_id", correlationID))
		}

		metrics.RecordError(appErr.Code, string(appErr.Severity))

		level := slog.LevelError
		if appErr.Severity == SeverityLow {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "application error", attrs...)

		if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
			h.sendToSentry(err)
		}

		key := appErr.MessageKey
		if key == "" {
			key = MsgGeneric
		}

		return h.text(key), appErr.Retryable
	}

	attrs := []slog.Attr{
		slog.String("message", err.Error()),
		slog.String("severity", string(SeverityHigh)),
		slog.Bool("retryable", false),
	}

	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	metrics.RecordError("unknown", string(SeverityHigh))
	log.LogAttrs(ctx, slog.LevelError, "unknown error", attrs...)

	if h.sentryEnabled {
		h.sendToSentry(err)
	}

	return h.text(MsgGeneric), false
}

func (h *Handler) text(key string) string {
	if h.tr == nil {
		return key
	}
	return h.tr.T(key)
}

func (h *Handler) sendToSentry(err error) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		var appErr *AppError
		if errors.As(err, &appErr) && appErr != nil {
			if appErr.Code != "" {
				scope.SetTag("code", appErr.Code)
			}

			if appErr.Severity != "" {
				scope.SetTag("severity", string(appErr.Severity))
			}
		}

		sentry.CaptureException(err)
	})
}
