package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/state"
)

// Start greets the user and waits for a podcast name.
func (f *Flow) Start(c telebot.Context) error {
	ctx := RequestContext(c)
	f.reset(ctx, chatID(c), state.StateAwaitingQuery, state.Patch{})
	return c.Send(f.t(msgStart))
}

// Cancel forgets the conversation and greets the user again.
func (f *Flow) Cancel(c telebot.Context) error {
	ctx := RequestContext(c)
	if f.sessions != nil {
		if err := f.sessions.ClearState(ctx, chatID(c)); err != nil {
			f.logSessionError(ctx, chatID(c), state.StateAwaitingQuery, err)
		}
	}
	return c.Send(f.t(msgStart))
}
