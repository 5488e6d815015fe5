package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	tsclient "github.com/uslugo/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements the lexical search tier on Typesense. It is
// optional wiring: when the cluster is unconfigured the search service falls
// back to the database text search instead.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.LexicalSearchEngine = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a listing document
func (a *TypesenseAdapter) Index(ctx context.Context, listing *entities.Listing) error {
	document := map[string]interface{}{
		"id":            listing.ID,
		"title":         listing.Title,
		"description":   listing.Description,
		"category_name": listing.CategoryName,
		"city":          listing.City,
		"price_min":     listing.PriceMin,
		"rating":        listing.Rating,
		"review_count":  listing.ReviewCount,
		"is_active":     listing.IsActive,
		"created_at":    listing.CreatedAt.Unix(),
	}
	if listing.District != "" {
		document["district"] = listing.District
	}
	if listing.PriceMax > 0 {
		document["price_max"] = listing.PriceMax
	}

	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index listing: %w", err)
	}

	return nil
}

// Delete removes a listing document
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete listing from index: %w", err)
	}
	return nil
}

// Search returns listings ranked by Typesense's text relevance. Scores are
// normalized to (0, 1] from the hit rank so they compose with the other
// tiers' score scale.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]entities.RankedResult, error) {
	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("title,description,category_name,city"),
		FilterBy: pointer.String("is_active:=true"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	results := []entities.RankedResult{}
	if result.Hits == nil {
		return results, nil
	}

	for i, hit := range *result.Hits {
		doc := *hit.Document

		listing := &entities.Listing{
			ID:           stringField(doc, "id"),
			Title:        stringField(doc, "title"),
			Description:  stringField(doc, "description"),
			CategoryName: stringField(doc, "category_name"),
			City:         stringField(doc, "city"),
			District:     stringField(doc, "district"),
			IsActive:     true,
		}
		if val, ok := doc["price_min"].(float64); ok {
			listing.PriceMin = val
		}
		if val, ok := doc["price_max"].(float64); ok {
			listing.PriceMax = val
		}
		if val, ok := doc["rating"].(float64); ok {
			listing.Rating = val
		}
		if val, ok := doc["review_count"].(float64); ok {
			listing.ReviewCount = int(val)
		}
		if val, ok := doc["created_at"].(float64); ok {
			listing.CreatedAt = time.Unix(int64(val), 0)
		}

		results = append(results, entities.RankedResult{
			Listing: listing,
			Score:   1.0 / float64(i+1),
		})
	}

	return results, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if val, ok := doc[key].(string); ok {
		return val
	}
	return ""
}
