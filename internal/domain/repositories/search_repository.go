package repositories

import (
	"context"

	"github.com/uslugo/backend/internal/domain/entities"
)

// ListingSearchRepository exposes the datastore-side search primitives.
// The hybrid function implements the 60/40 semantic/lexical blend and
// deduplication server-side; callers only format the embedding input and
// interpret the returned combined score.
type ListingSearchRepository interface {
	// SearchHybrid runs the combined vector+lexical ranking function.
	// Returned results carry the server-computed combined_score and contain
	// no duplicate listing IDs.
	SearchHybrid(ctx context.Context, query string, embedding []float32, limit int) ([]entities.RankedResult, error)

	// SearchVector runs pure nearest-neighbor search with a similarity
	// threshold
	SearchVector(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]entities.RankedResult, error)

	// SearchLexical runs pure full-text search ordered by term relevance
	SearchLexical(ctx context.Context, query string, limit int) ([]entities.RankedResult, error)
}

// LexicalSearchEngine is an optional external full-text engine used for the
// text tier when configured (Typesense). Distinct from the datastore
// primitives above; absence means the database fallback is used.
type LexicalSearchEngine interface {
	// Index upserts a listing document
	Index(ctx context.Context, listing *entities.Listing) error

	// Delete removes a listing document
	Delete(ctx context.Context, id string) error

	// Search returns listings ranked by built-in text relevance
	Search(ctx context.Context, query string, limit int) ([]entities.RankedResult, error)
}
