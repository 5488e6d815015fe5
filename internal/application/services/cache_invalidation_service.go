package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
)

// CacheInvalidationService sweeps suggestion caches when new search
// behavior data is recorded. Cached suggestion lists are derived from the
// query log, so every logged search can shift them; a bulk prefix sweep is
// cheaper than tracking which cached lists a given query affects.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for search activity events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelSearchActivity)
	if err != nil {
		return fmt.Errorf("failed to subscribe to search activity: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.SearchActivityEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.SearchActivityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.DeleteByPrefix(ctx, suggestionCachePrefix); err != nil {
		log.Printf("Warning: failed to sweep suggestion caches for event %s: %v", event.ID, err)
	}
}

// InvalidateSuggestionCaches sweeps the suggestion namespace immediately.
// Used by ops tooling and maintenance tasks.
func (s *CacheInvalidationService) InvalidateSuggestionCaches(ctx context.Context) error {
	if err := s.cache.DeleteByPrefix(ctx, suggestionCachePrefix); err != nil {
		return fmt.Errorf("failed to invalidate suggestion caches: %w", err)
	}
	log.Printf("Invalidated cache prefix: %s", suggestionCachePrefix)
	return nil
}
