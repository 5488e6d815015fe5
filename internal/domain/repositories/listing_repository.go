package repositories

import (
	"context"

	"github.com/uslugo/backend/internal/domain/entities"
)

// ListingFilter holds filtering options for listing queries
type ListingFilter struct {
	CategoryID string
	City       string
	Limit      int
	Offset     int
}

// ListingRepository defines persistence operations for listings
type ListingRepository interface {
	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id string) (*entities.Listing, error)

	// List retrieves active listings matching the filter
	List(ctx context.Context, filter ListingFilter) ([]*entities.Listing, error)

	// SearchByText performs a case-insensitive containment match on title
	// and description, ordered by recency descending. This is the last
	// fallback tier when no embedding and no lexical engine is available.
	SearchByText(ctx context.Context, query string, limit int) ([]*entities.Listing, error)

	// ListNeedingEmbedding retrieves listings whose embedding is missing or
	// stale for the given model
	ListNeedingEmbedding(ctx context.Context, model string, limit int) ([]*entities.Listing, error)

	// UpdateEmbedding stores a freshly generated embedding with its model
	// tag and timestamp
	UpdateEmbedding(ctx context.Context, id string, embedding []float32, model string) error
}
