package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/observability"
	"github.com/uslugo/backend/pkg/config"
)

// minQueryRunes is the shortest query the pipeline will search for. Anything
// shorter returns an empty response without touching any provider.
const minQueryRunes = 2

// SearchService runs the hybrid search pipeline: optional rewrite, optional
// embedding, the blended datastore ranking, a lexical fallback tier, and
// in-memory post-filters. Every external provider is optional; only the
// primary datastore call can fail the request.
type SearchService struct {
	searchRepo  repositories.ListingSearchRepository
	listingRepo repositories.ListingRepository
	lexical     repositories.LexicalSearchEngine
	embedder    providers.EmbeddingProvider
	rewriter    *QueryRewriteService
	analytics   *SearchAnalyticsService
	cfg         config.SearchConfig
	metrics     *observability.Metrics
}

// NewSearchService creates a new search service. lexical, embedder, rewriter
// and metrics may be nil; the pipeline degrades around each.
func NewSearchService(
	searchRepo repositories.ListingSearchRepository,
	listingRepo repositories.ListingRepository,
	lexical repositories.LexicalSearchEngine,
	embedder providers.EmbeddingProvider,
	rewriter *QueryRewriteService,
	analytics *SearchAnalyticsService,
	cfg config.SearchConfig,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		searchRepo:  searchRepo,
		listingRepo: listingRepo,
		lexical:     lexical,
		embedder:    embedder,
		rewriter:    rewriter,
		analytics:   analytics,
		cfg:         cfg,
		metrics:     metrics,
	}
}

// Search executes one search request end to end
func (s *SearchService) Search(ctx context.Context, query *entities.SearchQuery) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	start := time.Now()

	trimmed := strings.TrimSpace(query.Query)
	if len([]rune(trimmed)) < minQueryRunes {
		return &entities.SearchResponse{
			Results:      []entities.RankedResult{},
			Count:        0,
			Mode:         entities.SearchModeNone,
			HasEmbedding: false,
		}, nil
	}

	limit := s.normalizeLimit(query.Limit)

	effective := trimmed
	if s.cfg.RewriteEnabled && s.rewriter != nil {
		if rewrite := s.rewriter.Rewrite(ctx, trimmed); rewrite.NeedsCorrection {
			effective = rewrite.Corrected
		}
	}

	embedding := s.embedQuery(ctx, effective)

	results, mode, err := s.rank(ctx, effective, embedding, limit)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	results = filterByCity(results, query.City)
	results = filterByPrice(results, query.PriceMin, query.PriceMax)

	if query.SortBy == entities.SortByRating {
		sortByRating(results)
	}

	response := &entities.SearchResponse{
		Results:      results,
		Count:        len(results),
		Mode:         mode,
		HasEmbedding: embedding != nil,
	}

	observability.SetSpanAttributes(span,
		attribute.String("search.query", effective),
		attribute.String("search.mode", string(mode)),
		attribute.Int("search.result_count", response.Count),
	)
	if s.metrics != nil {
		observability.RecordSearchMetric(ctx, s.metrics, string(mode), response.HasEmbedding, time.Since(start))
	}

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, &entities.SearchEvent{
			Query:       effective,
			UserID:      query.UserID,
			ResultCount: response.Count,
			Embedding:   embedding,
		})
	}

	return response, nil
}

// rank picks the ranking tier: hybrid when an embedding exists, lexical
// otherwise, and lexical again when hybrid matched nothing
func (s *SearchService) rank(ctx context.Context, query string, embedding []float32, limit int) ([]entities.RankedResult, entities.SearchMode, error) {
	if embedding != nil {
		results, err := s.searchRepo.SearchHybrid(ctx, query, embedding, limit)
		if err != nil {
			return nil, "", err
		}
		if len(results) > 0 {
			return results, entities.SearchModeHybrid, nil
		}
	}

	results, err := s.searchLexical(ctx, query, limit)
	if err != nil {
		return nil, "", err
	}
	return results, entities.SearchModeText, nil
}

// searchLexical prefers the external text engine and falls back to the
// database containment search when it is absent or failing
func (s *SearchService) searchLexical(ctx context.Context, query string, limit int) ([]entities.RankedResult, error) {
	if s.lexical != nil {
		results, err := s.lexical.Search(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		log.Printf("Warning: lexical engine search failed, falling back to database: %v", err)
	}

	listings, err := s.listingRepo.SearchByText(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]entities.RankedResult, 0, len(listings))
	for _, listing := range listings {
		results = append(results, entities.RankedResult{Listing: listing})
	}
	return results, nil
}

// embedQuery returns nil both when the provider is unconfigured and when the
// call fails; the caller degrades to the lexical tier either way
func (s *SearchService) embedQuery(ctx context.Context, query string) []float32 {
	if s.embedder == nil {
		return nil
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Printf("Warning: failed to embed query %q: %v", query, err)
		return nil
	}
	return embedding
}

func (s *SearchService) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// filterByCity prunes results whose city or district does not contain the
// filter text. Order is preserved; an empty filter is a no-op.
func filterByCity(results []entities.RankedResult, city string) []entities.RankedResult {
	if strings.TrimSpace(city) == "" {
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Listing.MatchesCity(city) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// filterByPrice prunes results whose price range does not overlap the
// requested bounds. Zero bounds are unset; order is preserved.
func filterByPrice(results []entities.RankedResult, min, max float64) []entities.RankedResult {
	if min <= 0 && max <= 0 {
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Listing.MatchesPriceRange(min, max) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// sortByRating re-sorts in place by rating descending, breaking ties by
// review count descending
func sortByRating(results []entities.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Listing.Rating != results[j].Listing.Rating {
			return results[i].Listing.Rating > results[j].Listing.Rating
		}
		return results[i].Listing.ReviewCount > results[j].Listing.ReviewCount
	})
}
