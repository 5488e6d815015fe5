package services

import (
	"context"
	"log"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
)

// LexicalIndexService mirrors listings into the external full-text engine so
// the lexical tier serves the same data the database does. Active listings
// are upserted; deactivated ones are removed from the index.
type LexicalIndexService struct {
	engine repositories.LexicalSearchEngine
}

// NewLexicalIndexService creates a new lexical index service
func NewLexicalIndexService(engine repositories.LexicalSearchEngine) *LexicalIndexService {
	return &LexicalIndexService{engine: engine}
}

// SyncListings pushes a batch of listings into the engine. Per-listing
// failures are logged and skipped so one bad document does not stall the
// rest of the batch. Returns the number of listings indexed and removed.
func (s *LexicalIndexService) SyncListings(ctx context.Context, listings []*entities.Listing) (indexed, removed int) {
	if s.engine == nil {
		return 0, 0
	}

	for _, listing := range listings {
		if !listing.IsActive {
			if err := s.engine.Delete(ctx, listing.ID); err != nil {
				log.Printf("Warning: failed to remove listing %s from lexical index: %v", listing.ID, err)
				continue
			}
			removed++
			continue
		}

		if err := s.engine.Index(ctx, listing); err != nil {
			log.Printf("Warning: failed to index listing %s: %v", listing.ID, err)
			continue
		}
		indexed++
	}

	return indexed, removed
}
