package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/handlers"
	errors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/pkg/logger"
)

// ContextMiddleware gives every update a request context carrying a correlation id and deadline.
func ContextMiddleware(timeout time.Duration) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			ctx := logger.WithCorrelationID(context.Background(), "")

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			handlers.WithRequestContext(c, ctx)
			return next(c)
		}
	}
}

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := handlers.RequestContext(c)
					log.ErrorContext(ctx, "panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
						slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
					)

					userMsg, _ := errHandler.Handle(ctx, errors.NewPanicError(r))

					if c != nil {
						if sendErr := notify(c, userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
// Button presses get the message as a callback alert, text updates as a reply.
func ErrorHandlingMiddleware(errHandler *errors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg, _ := errHandler.Handle(handlers.RequestContext(c), err)

			if c != nil {
				_ = notify(c, userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			ctx := handlers.RequestContext(c)

			chatID := int64(0)
			if c != nil && c.Chat() != nil {
				chatID = c.Chat().ID
			}

			kind := "message"
			if c != nil && c.Callback() != nil {
				kind = "callback"
			}

			attrs := []any{
				slog.Int64("chat_id", chatID),
				slog.String("kind", kind),
				slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
			}

			log.DebugContext(ctx, "handling update", attrs...)
			err := next(c)
			log.InfoContext(ctx, "handled update", append(attrs,
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)...)

			return err
		}
	}
}

func notify(c telebot.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
