package podcast

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/internal/listennotes"
	"github.com/Proton-105/podcast-bot/pkg/metrics"
)

const (
	operationSearch   = "search"
	operationEpisodes = "episodes"

	outcomeOK        = "ok"
	outcomeNoResults = "no_results"
	outcomeFailure   = "failure"
)

// Provider is the part of the Listen Notes client the gateway needs.
type Provider interface {
	Search(ctx context.Context, params listennotes.SearchParams) (*listennotes.SearchResponse, error)
	Podcast(ctx context.Context, id string) (*listennotes.Podcast, error)
}

var (
	_ Provider      = (*listennotes.Client)(nil)
	_ Searcher      = (*Gateway)(nil)
	_ EpisodeLister = (*Gateway)(nil)
)

// SearchOptions fixes the upstream search filters.
type SearchOptions struct {
	Languages  []string
	OnlyIn     string
	SortByDate bool
	PageSize   int
}

// Gateway implements Searcher and EpisodeLister on top of Listen Notes.
type Gateway struct {
	provider Provider
	opts     SearchOptions
	log      *slog.Logger
}

// NewGateway builds a Gateway. Zero options fall back to English and Hebrew podcasts
// matched on title and description, ten per page.
func NewGateway(provider Provider, opts SearchOptions, log *slog.Logger) *Gateway {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"English", "Hebrew"}
	}
	if opts.OnlyIn == "" {
		opts.OnlyIn = "title,description"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &Gateway{provider: provider, opts: opts, log: log}
}

// Search returns podcasts matching query in upstream order.
func (g *Gateway) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("search query is empty")
	}

	started := time.Now()
	resp, err := g.provider.Search(ctx, listennotes.SearchParams{
		Query:      query,
		Type:       "podcast",
		OnlyIn:     g.opts.OnlyIn,
		Languages:  g.opts.Languages,
		SortByDate: g.opts.SortByDate,
		PageSize:   g.opts.PageSize,
	})
	if err != nil {
		metrics.RecordLookup(operationSearch, outcomeFailure, time.Since(started))
		return nil, apperrors.NewExternalAPIError("listennotes search", err)
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ID == "" {
			continue
		}
		title := strings.TrimSpace(r.TitleOriginal)
		if title == "" {
			title = r.ID
		}
		candidates = append(candidates, Candidate{ID: r.ID, Title: title})
	}

	if len(candidates) == 0 {
		metrics.RecordLookup(operationSearch, outcomeNoResults, time.Since(started))
		return nil, ErrNoResults
	}

	metrics.RecordLookup(operationSearch, outcomeOK, time.Since(started))
	g.log.DebugContext(ctx, "podcast search", slog.String("query", query), slog.Int("results", len(candidates)))

	return candidates, nil
}

// ListEpisodes returns the playable episodes of podcastID in upstream order.
func (g *Gateway) ListEpisodes(ctx context.Context, podcastID string) ([]Episode, error) {
	if podcastID == "" {
		return nil, apperrors.NewMalformedSelectionError(podcastID, errors.New("empty podcast id"))
	}

	started := time.Now()
	resp, err := g.provider.Podcast(ctx, podcastID)
	if err != nil {
		metrics.RecordLookup(operationEpisodes, outcomeFailure, time.Since(started))
		return nil, apperrors.NewExternalAPIError("listennotes podcast", err)
	}

	episodes := make([]Episode, 0, len(resp.Episodes))
	for _, e := range resp.Episodes {
		if e.Audio == "" {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = e.Audio
		}
		episodes = append(episodes, Episode{Title: title, AudioURL: e.Audio})
	}

	if len(episodes) == 0 {
		metrics.RecordLookup(operationEpisodes, outcomeNoResults, time.Since(started))
		return nil, ErrNoResults
	}

	metrics.RecordLookup(operationEpisodes, outcomeOK, time.Since(started))
	g.log.DebugContext(ctx, "podcast episodes", slog.String("podcast_id", podcastID), slog.Int("episodes", len(episodes)))

	return episodes, nil
}
