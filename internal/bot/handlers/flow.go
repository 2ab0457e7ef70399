package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
	"github.com/Proton-105/podcast-bot/internal/i18n"
	"github.com/Proton-105/podcast-bot/internal/linkstore"
	"github.com/Proton-105/podcast-bot/internal/podcast"
	"github.com/Proton-105/podcast-bot/internal/state"
)

const (
	msgStart         = "prompt.start"
	msgChoosePodcast = "prompt.choose_podcast"
	msgChooseEpisode = "prompt.choose_episode"
	msgNoPodcasts    = "search.no_podcasts"
	msgNoEpisodes    = "search.no_episodes"
)

// Deps lists the collaborators of Flow. Sessions and Links may be nil.
type Deps struct {
	Searcher   podcast.Searcher
	Episodes   podcast.EpisodeLister
	Menus      *keyboard.Builder
	Links      linkstore.Store
	Sessions   state.StateMachine
	Messenger  Messenger
	Translator i18n.Translator
	// RejectStale answers presses on superseded menus with an alert instead of serving them.
	RejectStale bool
	Log         *slog.Logger
}

// Flow runs the search, podcast choice, episode choice and audio reply steps.
type Flow struct {
	searcher    podcast.Searcher
	episodes    podcast.EpisodeLister
	menus       *keyboard.Builder
	links       linkstore.Store
	sessions    state.StateMachine
	messenger   Messenger
	tr          i18n.Translator
	rejectStale bool
	log         *slog.Logger
}

func NewFlow(d Deps) *Flow {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Menus == nil {
		d.Menus = keyboard.NewBuilder(d.Links, d.Log)
	}

	return &Flow{
		searcher:    d.Searcher,
		episodes:    d.Episodes,
		menus:       d.Menus,
		links:       d.Links,
		sessions:    d.Sessions,
		messenger:   d.Messenger,
		tr:          d.Translator,
		rejectStale: d.RejectStale,
		log:         d.Log,
	}
}

func (f *Flow) t(key string) string {
	if f.tr == nil {
		return key
	}
	return f.tr.T(key)
}

// reset starts a new session in s, dropping whatever the chat was doing.
func (f *Flow) reset(ctx context.Context, chatID int64, s state.State, patch state.Patch) {
	if f.sessions == nil {
		return
	}
	f.logSessionError(ctx, chatID, s, f.sessions.SetState(ctx, chatID, s, patch))
}

// advance moves the session forward. A press on a superseded menu that was still served
// rewrites the session to follow that menu.
func (f *Flow) advance(ctx context.Context, chatID int64, next state.State, patch state.Patch) {
	if f.sessions == nil {
		return
	}

	err := f.sessions.TransitionTo(ctx, chatID, next, patch)
	if errors.Is(err, state.ErrInvalidTransition) {
		err = f.sessions.SetState(ctx, chatID, next, patch)
	}
	f.logSessionError(ctx, chatID, next, err)
}

func (f *Flow) logSessionError(ctx context.Context, chatID int64, s state.State, err error) {
	switch {
	case err == nil:
	case errors.Is(err, state.ErrStateLocked):
		f.log.WarnContext(ctx, "session update skipped, lock held", slog.Int64("chat_id", chatID), slog.String("state", string(s)))
	default:
		f.log.ErrorContext(ctx, "session update failed", slog.Int64("chat_id", chatID), slog.String("state", string(s)), slog.Any("error", err))
	}
}

// stale reports whether a press must be refused because its menu is no longer current.
func (f *Flow) stale(ctx context.Context, c telebot.Context, next state.State) bool {
	if !f.rejectStale || f.sessions == nil {
		return false
	}

	session, err := f.sessions.GetState(ctx, chatID(c))
	if err != nil {
		if !errors.Is(err, state.ErrStateNotFound) {
			f.log.WarnContext(ctx, "session lookup failed", slog.Int64("chat_id", chatID(c)), slog.Any("error", err))
		}
		return false
	}

	return !session.Accepts(next, menuMessageID(c))
}

func chatID(c telebot.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}

func menuMessageID(c telebot.Context) int {
	if cb := c.Callback(); cb != nil && cb.Message != nil {
		return cb.Message.ID
	}
	return 0
}
