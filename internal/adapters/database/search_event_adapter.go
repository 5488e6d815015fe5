package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uslugo/backend/pkg/errors"
	"github.com/uslugo/backend/pkg/vectors"
)

// SearchEventAdapter implements SearchEventRepository over the append-only
// search_events log
type SearchEventAdapter struct {
	client *postgres.Client
}

// NewSearchEventAdapter creates a new search event adapter
func NewSearchEventAdapter(client *postgres.Client) repositories.SearchEventRepository {
	return &SearchEventAdapter{client: client}
}

// LogEvent appends one search event
func (a *SearchEventAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var userID sql.NullString
	if event.UserID != "" {
		userID = sql.NullString{String: event.UserID, Valid: true}
	}

	var embedding sql.NullString
	if len(event.Embedding) > 0 {
		embedding = sql.NullString{String: vectors.Serialize(event.Embedding), Valid: true}
	}

	query := `
		INSERT INTO search_events (id, query, user_id, result_count, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5::vector, $6)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		event.ID,
		event.Query,
		userID,
		event.ResultCount,
		embedding,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// TopQueries aggregates query texts logged since the given time, ordered by
// search count descending
func (a *SearchEventAdapter) TopQueries(ctx context.Context, since time.Time, limit int) ([]entities.QueryAggregate, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT query, COUNT(*) AS search_count
		FROM search_events
		WHERE created_at >= $1
		GROUP BY query
		ORDER BY search_count DESC, query ASC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get top queries", err)
	}
	defer rows.Close()

	aggregates := []entities.QueryAggregate{}
	for rows.Next() {
		var agg entities.QueryAggregate
		if err := rows.Scan(&agg.Query, &agg.SearchCount); err != nil {
			return nil, apperrors.NewInternalError("failed to scan query aggregate", err)
		}
		aggregates = append(aggregates, agg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating query aggregates", err)
	}

	return aggregates, nil
}

// RecentByUser returns the user's most recent distinct query texts
func (a *SearchEventAdapter) RecentByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT query
		FROM search_events
		WHERE user_id = $1
		GROUP BY query
		ORDER BY MAX(created_at) DESC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recent queries", err)
	}
	defer rows.Close()

	queries := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, apperrors.NewInternalError("failed to scan query", err)
		}
		queries = append(queries, q)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating recent queries", err)
	}

	return queries, nil
}

// ZeroResultQueries returns recent searches that produced no results
func (a *SearchEventAdapter) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, query, user_id, result_count, created_at
		FROM search_events
		WHERE result_count = 0
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		event := &entities.SearchEvent{}
		var userID sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.Query,
			&userID,
			&event.ResultCount,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}

		event.UserID = userID.String
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating search events", err)
	}

	return events, nil
}
