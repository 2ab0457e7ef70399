package listennotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://listen-api.listennotes.com/api/v2"
	defaultUserAgent = "podcast-bot/1.0"
	defaultTimeout   = 15 * time.Second
	apiKeyHeader     = "X-ListenAPI-Key"
	maxErrorBody     = 512
)

// Client talks to the Listen Notes API. It holds only read-only configuration and an
// http.Client, so one instance is shared by every conversation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	log        *slog.Logger
}

// Config holds configuration for the Listen Notes client.
type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// HTTP overrides the default client; Timeout is ignored when set.
	HTTP *http.Client
	Log  *slog.Logger
}

// NewClient creates a new Listen Notes API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTP
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		log:        cfg.Log,
	}
}

// Search runs a full-text search. Only the first page is requested.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	q := url.Values{}
	q.Set("q", params.Query)
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.OnlyIn != "" {
		q.Set("only_in", params.OnlyIn)
	}
	if len(params.Languages) > 0 {
		q.Set("language", strings.Join(params.Languages, ","))
	}
	if params.SortByDate {
		q.Set("sort_by_date", "1")
	} else {
		q.Set("sort_by_date", "0")
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}

	var resp SearchResponse
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return nil, err
	}

	if resp.Results == nil {
		return nil, fmt.Errorf("search: %w: missing results", ErrMalformedResponse)
	}

	return &resp, nil
}

// Podcast fetches a podcast with its first page of episodes.
func (c *Client) Podcast(ctx context.Context, id string) (*Podcast, error) {
	if id == "" {
		return nil, fmt.Errorf("podcast id cannot be empty")
	}

	var resp Podcast
	if err := c.get(ctx, "podcasts/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}

	if resp.Episodes == nil {
		return nil, fmt.Errorf("podcast %s: %w: missing episodes", id, ErrMalformedResponse)
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, result any) error {
	fullURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("listennotes request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w: %v", ErrMalformedResponse, err)
	}

	return nil
}
