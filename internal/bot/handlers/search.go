package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/internal/podcast"
	"github.com/Proton-105/podcast-bot/internal/state"
)

// Search looks up podcasts for free text or a /search payload and posts the podcast menu.
func (f *Flow) Search(c telebot.Context) error {
	ctx := RequestContext(c)

	query := searchQuery(c)
	if query == "" {
		return apperrors.NewValidationError("empty search query")
	}

	candidates, err := f.searcher.Search(ctx, query)
	if errors.Is(err, podcast.ErrNoResults) {
		f.log.InfoContext(ctx, "no podcasts found", slog.String("query", query))
		return c.Send(f.t(msgNoPodcasts))
	}
	if err != nil {
		return err
	}

	markup, err := f.menus.PodcastMenu(candidates)
	if err != nil {
		return fmt.Errorf("build podcast menu: %w", err)
	}

	menu, err := f.messenger.Send(c.Chat(), f.t(msgChoosePodcast), markup)
	if err != nil {
		return fmt.Errorf("send podcast menu: %w", err)
	}

	f.reset(ctx, chatID(c), state.StateAwaitingPodcastChoice, state.Patch{
		MenuMessageID: menu.ID,
		Query:         query,
	})

	return nil
}

func searchQuery(c telebot.Context) string {
	text := strings.TrimSpace(c.Text())
	if !strings.HasPrefix(text, "/") {
		return text
	}

	if msg := c.Message(); msg != nil && strings.TrimSpace(msg.Payload) != "" {
		return strings.TrimSpace(msg.Payload)
	}

	_, payload, _ := strings.Cut(text, " ")
	return strings.TrimSpace(payload)
}
