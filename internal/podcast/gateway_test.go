package podcast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Proton-105/podcast-bot/internal/errors"
	"github.com/Proton-105/podcast-bot/internal/listennotes"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Search(ctx context.Context, params listennotes.SearchParams) (*listennotes.SearchResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*listennotes.SearchResponse)
	return resp, args.Error(1)
}

func (m *mockProvider) Podcast(ctx context.Context, id string) (*listennotes.Podcast, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*listennotes.Podcast)
	return resp, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGateway_Search(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, listennotes.SearchParams{
		Query:     "Serial",
		Type:      "podcast",
		OnlyIn:    "title,description",
		Languages: []string{"English", "Hebrew"},
		PageSize:  10,
	}).Return(&listennotes.SearchResponse{Results: []listennotes.SearchResult{
		{ID: "p1", TitleOriginal: "Serial"},
		{ID: ""},
		{ID: "p3", TitleOriginal: "  "},
	}}, nil).Once()

	gw := NewGateway(provider, SearchOptions{}, testLogger())

	got, err := gw.Search(context.Background(), "  Serial ")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: "p1", Title: "Serial"}, {ID: "p3", Title: "p3"}}, got)
	provider.AssertExpectations(t)
}

func TestGateway_SearchNoResults(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, mock.Anything).
		Return(&listennotes.SearchResponse{Results: []listennotes.SearchResult{}}, nil).Once()

	gw := NewGateway(provider, SearchOptions{}, testLogger())

	_, err := gw.Search(context.Background(), "zzz_no_such_podcast")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGateway_SearchEmptyQuery(t *testing.T) {
	provider := &mockProvider{}
	gw := NewGateway(provider, SearchOptions{}, testLogger())

	_, err := gw.Search(context.Background(), "   ")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeEmptyInput, appErr.Code)
	provider.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestGateway_SearchLookupFailure(t *testing.T) {
	upstream := &listennotes.APIError{StatusCode: 500, Endpoint: "search"}
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, mock.Anything).Return(nil, upstream).Once()

	gw := NewGateway(provider, SearchOptions{Languages: []string{"English"}, PageSize: 5}, testLogger())

	_, err := gw.Search(context.Background(), "serial")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeLookupFailure, appErr.Code)
	assert.ErrorIs(t, err, upstream)
	assert.False(t, errors.Is(err, ErrNoResults))
}

func TestGateway_ListEpisodes(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Podcast", mock.Anything, "p1").Return(&listennotes.Podcast{Episodes: []listennotes.Episode{
		{Title: "Ep1", Audio: "https://x/ep1.mp3"},
		{Title: "No audio"},
		{Title: "Ep3", Audio: "https://x/ep3.mp3"},
	}}, nil).Once()

	gw := NewGateway(provider, SearchOptions{}, testLogger())

	got, err := gw.ListEpisodes(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []Episode{
		{Title: "Ep1", AudioURL: "https://x/ep1.mp3"},
		{Title: "Ep3", AudioURL: "https://x/ep3.mp3"},
	}, got)
}

func TestGateway_ListEpisodesNoResults(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Podcast", mock.Anything, "p1").
		Return(&listennotes.Podcast{Episodes: []listennotes.Episode{}}, nil).Once()

	gw := NewGateway(provider, SearchOptions{}, testLogger())

	_, err := gw.ListEpisodes(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGateway_ListEpisodesMalformed(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Podcast", mock.Anything, "p1").
		Return(nil, listennotes.ErrMalformedResponse).Once()

	gw := NewGateway(provider, SearchOptions{}, testLogger())

	_, err := gw.ListEpisodes(context.Background(), "p1")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeLookupFailure, appErr.Code)
	assert.ErrorIs(t, err, listennotes.ErrMalformedResponse)
}
