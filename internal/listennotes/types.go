package listennotes

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Query      string
	Type       string
	OnlyIn     string
	Languages  []string
	SortByDate bool
	PageSize   int
}

// SearchResponse is the subset of the /search body the bot reads.
// Results stays nil when the field is missing from the body.
type SearchResponse struct {
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

// SearchResult is one podcast hit.
type SearchResult struct {
	ID            string `json:"id"`
	TitleOriginal string `json:"title_original"`
	Publisher     string `json:"publisher_original,omitempty"`
}

// Podcast is the subset of GET /podcasts/{id} the bot reads.
type Podcast struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Episodes []Episode `json:"episodes"`
}

// Episode is one entry of Podcast.Episodes.
type Episode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Audio string `json:"audio"`
}
