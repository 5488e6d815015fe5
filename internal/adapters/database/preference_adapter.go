package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uslugo/backend/pkg/errors"
)

// PreferenceAdapter implements PreferenceRepository. Recomputation lives in
// a SQL function so the aggregate is rebuilt in a single statement against
// the query log.
type PreferenceAdapter struct {
	client *postgres.Client
}

// NewPreferenceAdapter creates a new preference adapter
func NewPreferenceAdapter(client *postgres.Client) repositories.PreferenceRepository {
	return &PreferenceAdapter{client: client}
}

// Get retrieves the current preference aggregate for a user
func (a *PreferenceAdapter) Get(ctx context.Context, userID string) (*entities.UserSearchPreference, error) {
	query := `
		SELECT user_id, preferred_categories, preferred_cities, preferred_type, search_frequency, computed_at
		FROM user_search_preferences
		WHERE user_id = $1
	`

	pref := &entities.UserSearchPreference{}
	var preferredType, searchFrequency sql.NullString

	err := a.client.DB().QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID,
		pq.Array(&pref.PreferredCategories),
		pq.Array(&pref.PreferredCities),
		&preferredType,
		&searchFrequency,
		&pref.ComputedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("preferences for user %s not found", userID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user preferences", err)
	}

	pref.PreferredType = preferredType.String
	pref.SearchFrequency = searchFrequency.String

	return pref, nil
}

// Recompute rebuilds and overwrites the user's preference aggregate from
// their query log history
func (a *PreferenceAdapter) Recompute(ctx context.Context, userID string) error {
	_, err := a.client.DB().ExecContext(ctx,
		`SELECT recompute_user_search_preferences($1)`,
		userID,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to recompute user preferences", err)
	}

	return nil
}

// ActiveUserIDs returns users with logged searches in the recent window
func (a *PreferenceAdapter) ActiveUserIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1000
	}

	query := `
		SELECT DISTINCT user_id
		FROM search_events
		WHERE user_id IS NOT NULL
		  AND created_at >= NOW() - INTERVAL '30 days'
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get active users", err)
	}
	defer rows.Close()

	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan user id", err)
		}
		userIDs = append(userIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating active users", err)
	}

	return userIDs, nil
}
