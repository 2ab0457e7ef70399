package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
)

// Handler processes bot commands and text messages.
type Handler func(c telebot.Context) error

// SelectionHandler processes a decoded button press.
type SelectionHandler func(c telebot.Context, sel keyboard.Selection) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Messenger sends a message and returns it, so the flow can remember the menu it posted.
// *telebot.Bot satisfies it.
type Messenger interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

const requestContextKey = "request_ctx"

// WithRequestContext attaches ctx to the update so handlers share its deadline and correlation id.
func WithRequestContext(c telebot.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(requestContextKey, ctx)
}

// RequestContext returns the context attached by WithRequestContext or context.Background.
func RequestContext(c telebot.Context) context.Context {
	if c != nil {
		if ctx, ok := c.Get(requestContextKey).(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}
