package services

import (
	"context"
	"fmt"
	"log"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
)

// PreferenceService owns recomputation of per-user search preference
// aggregates from the query log
type PreferenceService struct {
	repo repositories.PreferenceRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(repo repositories.PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// Get retrieves the current preference aggregate for a user
func (s *PreferenceService) Get(ctx context.Context, userID string) (*entities.UserSearchPreference, error) {
	return s.repo.Get(ctx, userID)
}

// Recompute rebuilds one user's preference aggregate
func (s *PreferenceService) Recompute(ctx context.Context, userID string) error {
	return s.repo.Recompute(ctx, userID)
}

// RecomputeAll rebuilds aggregates for all recently active users. Failures
// on individual users are logged and skipped so one bad aggregate cannot
// starve the rest of the batch.
func (s *PreferenceService) RecomputeAll(ctx context.Context, limit int) (int, error) {
	userIDs, err := s.repo.ActiveUserIDs(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list active users: %w", err)
	}

	recomputed := 0
	for _, userID := range userIDs {
		if err := s.repo.Recompute(ctx, userID); err != nil {
			log.Printf("Warning: failed to recompute preferences for user %s: %v", userID, err)
			continue
		}
		recomputed++
	}

	log.Printf("Recomputed search preferences for %d/%d users", recomputed, len(userIDs))
	return recomputed, nil
}
