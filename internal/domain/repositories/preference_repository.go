package repositories

import (
	"context"

	"github.com/uslugo/backend/internal/domain/entities"
)

// PreferenceRepository defines persistence for derived user search
// preferences. Recompute overwrites the aggregate wholesale in a single
// statement; there is no partial patching.
type PreferenceRepository interface {
	// Get retrieves the current preference aggregate for a user
	Get(ctx context.Context, userID string) (*entities.UserSearchPreference, error)

	// Recompute rebuilds and overwrites the user's preference aggregate from
	// their query log history
	Recompute(ctx context.Context, userID string) error

	// ActiveUserIDs returns users with logged searches in the recent window,
	// for batch recomputation
	ActiveUserIDs(ctx context.Context, limit int) ([]string, error)
}
