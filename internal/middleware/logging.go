package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Proton-105/podcast-bot/pkg/logger"
)

// RequestIDHeader carries the correlation id of an ops HTTP request.
const RequestIDHeader = "X-Request-ID"

// GinLogger assigns a correlation id to each ops request and logs its outcome.
func GinLogger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithCorrelationID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		correlationID := logger.CorrelationIDFromContext(ctx)
		c.Header(RequestIDHeader, correlationID)

		c.Next()

		log.LogAttrs(ctx, levelFor(c.Writer.Status()),
			"handled http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", correlationID),
		)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}
