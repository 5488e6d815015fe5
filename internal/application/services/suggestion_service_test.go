package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/infrastructure/observability"
)

func TestSuggest_TrendingRanksAbovePopular(t *testing.T) {
	eventRepo := &MockEventRepo{
		trending: []entities.QueryAggregate{{Query: "hydraulik warszawa", SearchCount: 12}},
		popular:  []entities.QueryAggregate{{Query: "sprzątanie kraków", SearchCount: 900}},
	}
	svc := services.NewSuggestionService(eventRepo, &MockPreferenceRepo{}, nil, 180, nil)

	resp, err := svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)

	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, entities.SuggestionTypeTrending, resp.Suggestions[0].Type)
	assert.Equal(t, "hydraulik warszawa", resp.Suggestions[0].Query)
	assert.Equal(t, entities.SuggestionTypePopular, resp.Suggestions[1].Type)
	assert.Greater(t, resp.Suggestions[0].Score, resp.Suggestions[1].Score,
		"trending outranks popular regardless of raw counts")
	assert.False(t, resp.Personalized)
	assert.False(t, resp.Fallback)
}

func TestSuggest_DedupesAcrossTiers(t *testing.T) {
	eventRepo := &MockEventRepo{
		trending: []entities.QueryAggregate{{Query: "hydraulik warszawa", SearchCount: 12}},
		popular: []entities.QueryAggregate{
			{Query: "Hydraulik Warszawa", SearchCount: 500},
			{Query: "elektryk gdańsk", SearchCount: 100},
		},
	}
	svc := services.NewSuggestionService(eventRepo, &MockPreferenceRepo{}, nil, 180, nil)

	resp, err := svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)

	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "hydraulik warszawa", resp.Suggestions[0].Query)
	assert.Equal(t, "elektryk gdańsk", resp.Suggestions[1].Query)
}

func TestSuggest_PersonalizedFromPreferences(t *testing.T) {
	prefRepo := &MockPreferenceRepo{
		pref: &entities.UserSearchPreference{
			UserID:              "u1",
			PreferredCategories: []string{"hydraulika"},
			PreferredCities:     []string{"Warszawa"},
		},
	}
	svc := services.NewSuggestionService(&MockEventRepo{}, prefRepo, nil, 180, nil)

	resp, err := svc.Suggest(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.NotEmpty(t, resp.Suggestions)
	assert.True(t, resp.Personalized)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "hydraulika Warszawa", resp.Suggestions[0].Query)
	assert.Equal(t, entities.SuggestionTypePersonalized, resp.Suggestions[0].Type)
	assert.Equal(t, entities.SuggestionScorePersonalized, resp.Suggestions[0].Score)
}

func TestSuggest_HistoryFallbackWhenPreferencesMissing(t *testing.T) {
	eventRepo := &MockEventRepo{recent: []string{"hydraulik warszawa", "elektryk"}}
	prefRepo := &MockPreferenceRepo{getErr: errors.New("not found")}
	svc := services.NewSuggestionService(eventRepo, prefRepo, nil, 180, nil)

	resp, err := svc.Suggest(context.Background(), "u1", 10)
	require.NoError(t, err)

	assert.False(t, resp.Personalized)
	assert.True(t, resp.Fallback)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, entities.SuggestionTypeHistory, resp.Suggestions[0].Type)
	assert.Equal(t, entities.SuggestionScoreHistory, resp.Suggestions[0].Score)
}

func TestSuggest_CachedResponseSkipsRepos(t *testing.T) {
	eventRepo := &MockEventRepo{
		trending: []entities.QueryAggregate{{Query: "hydraulik warszawa", SearchCount: 12}},
	}
	cache := NewMockCacheProvider()
	svc := services.NewSuggestionService(eventRepo, &MockPreferenceRepo{}, cache, 180, nil)

	_, err := svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)
	callsAfterFirst := eventRepo.topCalls

	resp, err := svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, eventRepo.topCalls, "second call must be served from cache")
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "hydraulik warszawa", resp.Suggestions[0].Query)
}

func TestSuggest_CachePathRecordsMetrics(t *testing.T) {
	eventRepo := &MockEventRepo{
		trending: []entities.QueryAggregate{{Query: "hydraulik warszawa", SearchCount: 12}},
	}
	cache := NewMockCacheProvider()
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	svc := services.NewSuggestionService(eventRepo, &MockPreferenceRepo{}, cache, 180, metrics)

	// first call misses the cache, second is served from it; both pass
	// through the hit/miss counters
	_, err = svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)
	callsAfterFirst := eventRepo.topCalls

	resp, err := svc.Suggest(context.Background(), "", 10)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, eventRepo.topCalls, "cached call must not hit the repos")
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "hydraulik warszawa", resp.Suggestions[0].Query)
}

func TestSuggest_TruncatesToLimit(t *testing.T) {
	eventRepo := &MockEventRepo{
		trending: []entities.QueryAggregate{
			{Query: "a1", SearchCount: 9}, {Query: "a2", SearchCount: 8}, {Query: "a3", SearchCount: 7},
		},
		popular: []entities.QueryAggregate{{Query: "b1", SearchCount: 100}},
	}
	svc := services.NewSuggestionService(eventRepo, &MockPreferenceRepo{}, nil, 180, nil)

	resp, err := svc.Suggest(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, resp.Suggestions, 2)
}
