package entities

import (
	"time"
)

// SearchEvent represents a single search interaction in the query log.
// Append-only: events are never updated after being written.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	UserID      string    `json:"user_id,omitempty" db:"user_id"`
	ResultCount int       `json:"result_count" db:"result_count"`
	Embedding   []float32 `json:"-" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// QueryAggregate is a query-text aggregate over a window of the query log,
// used for trending and popular suggestion lists.
type QueryAggregate struct {
	Query       string `json:"query" db:"query"`
	SearchCount int    `json:"search_count" db:"search_count"`
}
