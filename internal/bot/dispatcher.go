package bot

import (
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/handlers"
	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/podcast-bot/internal/errors"
)

// Dispatcher routes decoded button presses by selection kind.
type Dispatcher struct {
	handlers map[keyboard.Kind]handlers.SelectionHandler
	log      *slog.Logger
	mu       sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		handlers: make(map[keyboard.Kind]handlers.SelectionHandler),
		log:      log,
	}
}

// Register registers a handler for the provided selection kind.
func (d *Dispatcher) Register(kind keyboard.Kind, h handlers.SelectionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// Dispatch hands sel to the handler of its kind.
func (d *Dispatcher) Dispatch(c telebot.Context, sel keyboard.Selection) error {
	handler := d.getHandler(sel.Kind)
	if handler == nil {
		d.log.Warn("no handler registered for selection", slog.String("kind", sel.Kind.String()))
		return apperrors.NewMalformedSelectionError(sel.Value, nil)
	}

	return handler(c, sel)
}

func (d *Dispatcher) getHandler(kind keyboard.Kind) handlers.SelectionHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[kind]
}
