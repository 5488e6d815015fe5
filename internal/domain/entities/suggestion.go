package entities

// SuggestionType tags where a suggestion came from
type SuggestionType string

const (
	SuggestionTypePersonalized SuggestionType = "personalized"
	SuggestionTypeTrending     SuggestionType = "trending"
	SuggestionTypePopular      SuggestionType = "popular"
	SuggestionTypeHistory      SuggestionType = "history"
)

// Baseline scores per suggestion type. Trending is deliberately scored above
// popular as a business rule, not a statistical one.
const (
	SuggestionScorePersonalized = 1.0
	SuggestionScoreTrending     = 0.8
	SuggestionScorePopular      = 0.6
	SuggestionScoreHistory      = 0.4
)

// Suggestion is a single ranked query suggestion
type Suggestion struct {
	Query string         `json:"query"`
	Type  SuggestionType `json:"type"`
	Score float64        `json:"score"`
}

// SuggestionResponse is the caller-facing suggestions payload.
// Fallback is set when a personalized computation failed and the list was
// built from the caller's raw recent history instead.
type SuggestionResponse struct {
	Suggestions  []Suggestion `json:"suggestions"`
	Personalized bool         `json:"personalized"`
	Fallback     bool         `json:"fallback,omitempty"`
}
