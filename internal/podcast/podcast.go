package podcast

import (
	"context"
	"errors"
)

// ErrNoResults is returned when a lookup succeeds but yields nothing to choose from.
var ErrNoResults = errors.New("no results")

// Candidate is a podcast returned by a search.
type Candidate struct {
	ID    string
	Title string
}

// Episode is a playable episode of a podcast.
type Episode struct {
	Title    string
	AudioURL string
}

// Searcher finds podcasts by free text.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// EpisodeLister lists the episodes of a podcast.
type EpisodeLister interface {
	ListEpisodes(ctx context.Context, podcastID string) ([]Episode, error)
}
