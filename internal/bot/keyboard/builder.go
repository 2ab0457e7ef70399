package keyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/podcast-bot/internal/linkstore"
	"github.com/Proton-105/podcast-bot/internal/podcast"
)

// Builder creates the one-column selection menus.
type Builder struct {
	links linkstore.Store
	log   *slog.Logger
}

// NewBuilder returns a new Builder. links keeps audio URLs too long for a button payload.
func NewBuilder(links linkstore.Store, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{links: links, log: log}
}

// PodcastMenu renders one button per candidate, in order.
func (b *Builder) PodcastMenu(candidates []podcast.Candidate) (*telebot.ReplyMarkup, error) {
	kb := NewInlineKeyboard()
	for _, c := range candidates {
		kb.AddRow(InlineButton{Text: c.Title, Selection: PodcastChoice(c.ID)})
	}
	return kb.Build()
}

// EpisodeMenu renders one button per episode, in order. Audio URLs that overflow the
// callback data limit are stored in the link store and referenced by key.
func (b *Builder) EpisodeMenu(ctx context.Context, episodes []podcast.Episode) (*telebot.ReplyMarkup, error) {
	kb := NewInlineKeyboard()
	for _, e := range episodes {
		sel, err := b.episodeSelection(ctx, e.AudioURL)
		if err != nil {
			return nil, err
		}
		kb.AddRow(InlineButton{Text: e.Title, Selection: sel})
	}
	return kb.Build()
}

func (b *Builder) episodeSelection(ctx context.Context, audioURL string) (Selection, error) {
	sel := EpisodeChoice(audioURL)

	_, err := sel.Encode()
	if err == nil {
		return sel, nil
	}
	if !errors.Is(err, ErrSelectionTooLong) {
		return Selection{}, err
	}
	if b.links == nil {
		return Selection{}, fmt.Errorf("audio url too long and no link store configured: %w", err)
	}

	key, err := b.links.Put(ctx, audioURL)
	if err != nil {
		return Selection{}, fmt.Errorf("store audio link: %w", err)
	}

	b.log.DebugContext(ctx, "audio url stored by reference", slog.String("key", key), slog.Int("url_bytes", len(audioURL)))
	return EpisodeRefChoice(key), nil
}
