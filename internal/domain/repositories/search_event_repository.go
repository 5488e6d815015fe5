package repositories

import (
	"context"
	"time"

	"github.com/uslugo/backend/internal/domain/entities"
)

// SearchEventRepository defines persistence for the append-only query log
// and the aggregates derived from it
type SearchEventRepository interface {
	// LogEvent appends one search event. Events are immutable once written.
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// TopQueries aggregates query texts logged since the given time, ordered
	// by search count descending
	TopQueries(ctx context.Context, since time.Time, limit int) ([]entities.QueryAggregate, error)

	// RecentByUser returns the user's most recent distinct query texts
	RecentByUser(ctx context.Context, userID string, limit int) ([]string, error)

	// ZeroResultQueries returns recent searches that produced no results
	ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
