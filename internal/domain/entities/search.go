package entities

// SearchMode identifies which ranking tier produced a result set
type SearchMode string

const (
	// SearchModeHybrid blends vector similarity and lexical relevance
	SearchModeHybrid SearchMode = "hybrid"

	// SearchModeText is the lexical-only tier used when no query embedding
	// is available or the hybrid call returned nothing
	SearchModeText SearchMode = "text"

	// SearchModeNone is returned for queries too short to search
	SearchModeNone SearchMode = "none"
)

// SortBy values accepted by the search endpoint
const (
	SortByRelevance = "relevance"
	SortByRating    = "rating"
)

// SearchQuery holds the caller-supplied search parameters
type SearchQuery struct {
	Query    string  `json:"query"`
	City     string  `json:"city,omitempty"`
	PriceMin float64 `json:"priceMin,omitempty"`
	PriceMax float64 `json:"priceMax,omitempty"`
	SortBy   string  `json:"sortBy,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	UserID   string  `json:"-"`
}

// RankedResult pairs a listing with its combined relevance score for one
// search response. Transient; never persisted.
type RankedResult struct {
	Listing *Listing `json:"listing"`
	Score   float64  `json:"score"`
}

// SearchResponse is the caller-facing result of one search request
type SearchResponse struct {
	Results      []RankedResult `json:"results"`
	Count        int            `json:"count"`
	Mode         SearchMode     `json:"mode"`
	HasEmbedding bool           `json:"hasEmbedding"`
}

// RewriteResult is the outcome of the LLM query rewrite step.
// Confidence is a fixed heuristic constant when a correction was made, not a
// model-derived probability.
type RewriteResult struct {
	Original        string  `json:"original"`
	Corrected       string  `json:"corrected"`
	NeedsCorrection bool    `json:"needsCorrection"`
	Confidence      float64 `json:"confidence"`
}
