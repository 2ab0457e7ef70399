package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/handlers"
	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
	"github.com/Proton-105/podcast-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(handlerName(c), status, time.Since(start))

		return err
	}
}

// handlerName derives a low-cardinality label: the command, the selection kind, or "search".
func handlerName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil {
		sel, err := keyboard.ParseSelection(cb.Data)
		if err != nil {
			return "malformed_selection"
		}
		return "select_" + sel.Kind.String()
	}

	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		cmd, _, _ = strings.Cut(cmd, "@")
		return strings.ToLower(strings.TrimPrefix(cmd, "/"))
	}

	if text != "" {
		return "search"
	}

	return "unknown"
}
