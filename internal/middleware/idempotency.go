package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/handlers"
	"github.com/Proton-105/podcast-bot/internal/idempotency"
)

// DefaultDedupTTL is how long a processed update is remembered.
const DefaultDedupTTL = 24 * time.Hour

// Idempotency drops redelivered Telegram updates so each one is handled at most once.
// It must sit inside the error-handling middleware: only an error returned by next lets a
// redelivery of a failed update run again.
func Idempotency(manager idempotency.Manager, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if manager == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := extractIdempotencyKey(c)
			if key == "" {
				return next(c)
			}

			ctx := handlers.RequestContext(c)

			result, err := manager.Execute(ctx, key, ttl, func(context.Context) error {
				return next(c)
			})
			if err != nil {
				if errors.Is(err, idempotency.ErrRequestInProgress) {
					log.DebugContext(ctx, "duplicate update dropped while in progress", slog.String("key", key))
					return nil
				}
				return err
			}

			if result != nil && result.Duplicate {
				log.DebugContext(ctx, "duplicate update dropped", slog.String("key", key))
			}

			return nil
		}
	}
}

func extractIdempotencyKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil && cb.ID != "" {
		return idempotency.CallbackKey(cb.ID)
	}

	if msg := c.Message(); msg != nil && msg.ID != 0 {
		chatID := int64(0)
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		return idempotency.MessageKey(chatID, msg.ID)
	}

	return ""
}
