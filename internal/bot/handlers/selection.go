package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/internal/linkstore"
	"github.com/Proton-105/podcast-bot/internal/podcast"
	"github.com/Proton-105/podcast-bot/internal/state"
)

// ChoosePodcast replaces the podcast menu with the chosen podcast's episodes.
func (f *Flow) ChoosePodcast(c telebot.Context, sel keyboard.Selection) error {
	ctx := RequestContext(c)

	if f.stale(ctx, c, state.StateAwaitingEpisodeChoice) {
		return apperrors.NewStateError("podcast press on a superseded menu")
	}

	episodes, err := f.episodes.ListEpisodes(ctx, sel.Value)
	if errors.Is(err, podcast.ErrNoResults) {
		// The user has to type a new query from here.
		f.log.InfoContext(ctx, "podcast has no playable episodes", slog.String("podcast_id", sel.Value))
		if err := c.Edit(f.t(msgNoEpisodes)); err != nil {
			return fmt.Errorf("edit menu: %w", err)
		}
		return c.Respond()
	}
	if err != nil {
		return err
	}

	markup, err := f.menus.EpisodeMenu(ctx, episodes)
	if err != nil {
		return apperrors.NewStorageError(fmt.Errorf("build episode menu: %w", err))
	}

	if err := c.Edit(f.t(msgChooseEpisode), markup); err != nil {
		return fmt.Errorf("edit menu: %w", err)
	}

	f.advance(ctx, chatID(c), state.StateAwaitingEpisodeChoice, state.Patch{
		MenuMessageID: menuMessageID(c),
		PodcastID:     sel.Value,
	})

	return c.Respond()
}

// ChooseEpisode sends the chosen episode as an audio attachment addressed by URL.
func (f *Flow) ChooseEpisode(c telebot.Context, sel keyboard.Selection) error {
	ctx := RequestContext(c)

	if f.stale(ctx, c, state.StateDone) {
		return apperrors.NewStateError("episode press on a superseded menu")
	}

	audioURL := sel.Value
	if sel.Kind == keyboard.KindEpisodeRef {
		resolved, err := f.resolve(c, sel)
		if err != nil {
			return err
		}
		audioURL = resolved
	}

	if err := c.Respond(); err != nil {
		f.log.WarnContext(ctx, "failed to answer callback", slog.Any("error", err))
	}

	if err := c.Send(&telebot.Audio{File: telebot.FromURL(audioURL)}); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}

	f.advance(ctx, chatID(c), state.StateDone, state.Patch{MenuMessageID: menuMessageID(c)})
	return nil
}

func (f *Flow) resolve(c telebot.Context, sel keyboard.Selection) (string, error) {
	if f.links == nil {
		return "", apperrors.NewMalformedSelectionError(sel.Value, errors.New("no link store configured"))
	}

	audioURL, err := f.links.Resolve(RequestContext(c), sel.Value)
	if errors.Is(err, linkstore.ErrNotFound) {
		return "", apperrors.NewMalformedSelectionError(sel.Value, err)
	}
	if err != nil {
		return "", apperrors.NewStorageError(err)
	}

	return audioURL, nil
}
