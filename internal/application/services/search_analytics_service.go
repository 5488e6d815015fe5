package services

import (
	"context"
	"log"
	"time"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/internal/domain/repositories"
)

// SearchAnalyticsService owns the append-only query log and the activity
// notifications derived from it
type SearchAnalyticsService struct {
	repo     repositories.SearchEventRepository
	eventBus providers.EventBus
}

// NewSearchAnalyticsService creates a new search analytics service. The
// event bus is optional; without it no invalidation notifications are sent.
func NewSearchAnalyticsService(repo repositories.SearchEventRepository, eventBus providers.EventBus) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo, eventBus: eventBus}
}

// TrackSearch logs a search event in the background so the caller's request
// never waits on analytics writes
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		// Use a fresh context since the request context might be cancelled
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Printf("Warning: failed to log search event: %v", err)
			return
		}

		if s.eventBus != nil {
			activity := entities.NewSearchActivityEvent(entities.SearchActivityLogged, event.Query, event.UserID)
			if err := s.eventBus.Publish(bgCtx, providers.EventChannelSearchActivity, activity); err != nil {
				log.Printf("Warning: failed to publish search activity event: %v", err)
			}
		}
	}()
}

// GetZeroResultQueries returns recent searches that produced no results
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.ZeroResultQueries(ctx, limit)
}
