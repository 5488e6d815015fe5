package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uslugo/backend/pkg/errors"
	"github.com/uslugo/backend/pkg/vectors"
)

// SearchAdapter implements ListingSearchRepository on top of the
// search_listings_* SQL functions. The functions own the score blending and
// deduplication; this adapter only formats parameters and scans rows.
type SearchAdapter struct {
	client *postgres.Client
}

// NewSearchAdapter creates a new search adapter
func NewSearchAdapter(client *postgres.Client) repositories.ListingSearchRepository {
	return &SearchAdapter{client: client}
}

const rankedListingColumns = `
	id, title, description, category_id, category_name,
	city, district, price_min, price_max, rating, review_count,
	is_active, created_at, updated_at
`

// SearchHybrid runs the combined vector+lexical ranking function
func (a *SearchAdapter) SearchHybrid(ctx context.Context, query string, embedding []float32, limit int) ([]entities.RankedResult, error) {
	sqlQuery := `
		SELECT ` + rankedListingColumns + `, combined_score
		FROM search_listings_hybrid($1, $2::vector, $3)
	`

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery,
		query,
		vectors.Serialize(embedding),
		limit,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to run hybrid search", err)
	}
	defer rows.Close()

	return scanRankedResults(rows)
}

// SearchVector runs pure nearest-neighbor search with a similarity threshold
func (a *SearchAdapter) SearchVector(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]entities.RankedResult, error) {
	sqlQuery := `
		SELECT ` + rankedListingColumns + `, similarity AS combined_score
		FROM search_listings_vector($1::vector, $2, $3)
	`

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery,
		vectors.Serialize(embedding),
		limit,
		minSimilarity,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to run vector search", err)
	}
	defer rows.Close()

	return scanRankedResults(rows)
}

// SearchLexical runs pure full-text search ordered by term relevance
func (a *SearchAdapter) SearchLexical(ctx context.Context, query string, limit int) ([]entities.RankedResult, error) {
	sqlQuery := `
		SELECT ` + rankedListingColumns + `, rank AS combined_score
		FROM search_listings_lexical($1, $2)
	`

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to run lexical search", err)
	}
	defer rows.Close()

	return scanRankedResults(rows)
}

// scanRankedResults scans function rows in returned order. Duplicate IDs
// should never come back from the SQL functions; if one does, keep the
// higher-ranked first occurrence and log the anomaly.
func scanRankedResults(rows *sql.Rows) ([]entities.RankedResult, error) {
	results := []entities.RankedResult{}
	seen := map[string]bool{}

	for rows.Next() {
		listing := &entities.Listing{}
		var district sql.NullString
		var score float64

		err := rows.Scan(
			&listing.ID,
			&listing.Title,
			&listing.Description,
			&listing.CategoryID,
			&listing.CategoryName,
			&listing.City,
			&district,
			&listing.PriceMin,
			&listing.PriceMax,
			&listing.Rating,
			&listing.ReviewCount,
			&listing.IsActive,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&score,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search result", err)
		}

		listing.District = district.String

		if seen[listing.ID] {
			log.Printf("Warning: duplicate listing %s in search results, dropping lower-ranked occurrence", listing.ID)
			continue
		}
		seen[listing.ID] = true

		results = append(results, entities.RankedResult{Listing: listing, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating search results", err)
	}

	return results, nil
}
