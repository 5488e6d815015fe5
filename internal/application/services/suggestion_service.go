package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/observability"
)

const (
	trendingWindow = 7 * 24 * time.Hour
	popularWindow  = 30 * 24 * time.Hour

	suggestionCachePrefix = "suggest:"
	suggestionCacheVer    = "v1"
)

// SuggestionService assembles search suggestions from the query log and the
// derived per-user preference aggregates. Responses are cached; the cache is
// swept by CacheInvalidationService when new search behavior arrives.
type SuggestionService struct {
	events      repositories.SearchEventRepository
	preferences repositories.PreferenceRepository
	cache       providers.CacheProvider
	ttlSeconds  int
	metrics     *observability.Metrics
}

// NewSuggestionService creates a new suggestion service. cache and metrics
// may be nil.
func NewSuggestionService(
	events repositories.SearchEventRepository,
	preferences repositories.PreferenceRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
	metrics *observability.Metrics,
) *SuggestionService {
	return &SuggestionService{
		events:      events,
		preferences: preferences,
		cache:       cache,
		ttlSeconds:  ttlSeconds,
		metrics:     metrics,
	}
}

// Suggest returns suggestions for the caller. An empty userID yields the
// anonymous trending/popular blend.
func (s *SuggestionService) Suggest(ctx context.Context, userID string, limit int) (*entities.SuggestionResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := s.cacheKey(userID, limit)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var response *entities.SuggestionResponse
	if userID == "" {
		anonymous, err := s.anonymousSuggestions(ctx, limit)
		if err != nil {
			return nil, err
		}
		response = anonymous
	} else {
		response = s.personalizedSuggestions(ctx, userID, limit)
	}

	s.toCache(ctx, cacheKey, response)
	return response, nil
}

// anonymousSuggestions blends trending (7d) and popular (30d) aggregates.
// Trending always ranks above popular regardless of raw counts: recent
// movement is worth more than long-run volume.
func (s *SuggestionService) anonymousSuggestions(ctx context.Context, limit int) (*entities.SuggestionResponse, error) {
	now := time.Now()

	trending, err := s.events.TopQueries(ctx, now.Add(-trendingWindow), limit)
	if err != nil {
		return nil, err
	}

	popular, err := s.events.TopQueries(ctx, now.Add(-popularWindow), limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]entities.Suggestion, 0, limit)
	seen := map[string]bool{}

	for _, agg := range trending {
		if addSuggestion(&suggestions, seen, agg.Query, entities.SuggestionTypeTrending, entities.SuggestionScoreTrending, limit) {
			break
		}
	}
	for _, agg := range popular {
		if addSuggestion(&suggestions, seen, agg.Query, entities.SuggestionTypePopular, entities.SuggestionScorePopular, limit) {
			break
		}
	}

	return &entities.SuggestionResponse{
		Suggestions:  suggestions,
		Personalized: false,
		Fallback:     false,
	}, nil
}

// personalizedSuggestions derives suggestions from the user's preference
// aggregate, falling back to their raw query history when the aggregate is
// missing or unusable
func (s *SuggestionService) personalizedSuggestions(ctx context.Context, userID string, limit int) *entities.SuggestionResponse {
	pref, err := s.preferences.Get(ctx, userID)
	if err == nil {
		suggestions := suggestionsFromPreference(pref, limit)
		if len(suggestions) > 0 {
			return &entities.SuggestionResponse{
				Suggestions:  suggestions,
				Personalized: true,
				Fallback:     false,
			}
		}
	}

	return s.historyFallback(ctx, userID, limit)
}

// historyFallback serves the user's recent distinct queries when no usable
// preference aggregate exists
func (s *SuggestionService) historyFallback(ctx context.Context, userID string, limit int) *entities.SuggestionResponse {
	queries, err := s.events.RecentByUser(ctx, userID, limit)
	if err != nil {
		log.Printf("Warning: failed to load query history for user %s: %v", userID, err)
		queries = nil
	}

	suggestions := make([]entities.Suggestion, 0, len(queries))
	for _, q := range queries {
		suggestions = append(suggestions, entities.Suggestion{
			Query: q,
			Type:  entities.SuggestionTypeHistory,
			Score: entities.SuggestionScoreHistory,
		})
	}

	return &entities.SuggestionResponse{
		Suggestions:  suggestions,
		Personalized: false,
		Fallback:     true,
	}
}

// suggestionsFromPreference composes category × city query texts from the
// preference aggregate
func suggestionsFromPreference(pref *entities.UserSearchPreference, limit int) []entities.Suggestion {
	suggestions := make([]entities.Suggestion, 0, limit)
	seen := map[string]bool{}

	cities := pref.PreferredCities
	if len(cities) == 0 {
		cities = []string{""}
	}

	for _, category := range pref.PreferredCategories {
		for _, city := range cities {
			query := strings.TrimSpace(category + " " + city)
			if addSuggestion(&suggestions, seen, query, entities.SuggestionTypePersonalized, entities.SuggestionScorePersonalized, limit) {
				return suggestions
			}
		}
	}

	return suggestions
}

func addSuggestion(suggestions *[]entities.Suggestion, seen map[string]bool, query string, sType entities.SuggestionType, score float64, limit int) bool {
	if len(*suggestions) >= limit {
		return true
	}

	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" || seen[key] {
		return len(*suggestions) >= limit
	}
	seen[key] = true

	*suggestions = append(*suggestions, entities.Suggestion{
		Query: query,
		Type:  sType,
		Score: score,
	})
	return len(*suggestions) >= limit
}

func (s *SuggestionService) cacheKey(userID string, limit int) string {
	identity := "anon"
	if userID != "" {
		identity = userID
	}
	return fmt.Sprintf("%s%s:%s:%d", suggestionCachePrefix, suggestionCacheVer, identity, limit)
}

func (s *SuggestionService) fromCache(ctx context.Context, key string) *entities.SuggestionResponse {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.recordCacheMiss(ctx, key)
		return nil
	}

	var response entities.SuggestionResponse
	if err := json.Unmarshal(data, &response); err != nil {
		log.Printf("Warning: corrupt suggestion cache entry %s: %v", key, err)
		s.recordCacheMiss(ctx, key)
		return nil
	}
	s.recordCacheHit(ctx, key)
	return &response
}

func (s *SuggestionService) recordCacheHit(ctx context.Context, key string) {
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
	}
}

func (s *SuggestionService) recordCacheMiss(ctx context.Context, key string) {
	if s.metrics != nil {
		observability.RecordCacheMiss(ctx, s.metrics, key)
	}
}

func (s *SuggestionService) toCache(ctx context.Context, key string, response *entities.SuggestionResponse) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttlSeconds); err != nil {
		log.Printf("Warning: failed to cache suggestions %s: %v", key, err)
	}
}
