package providers

import (
	"context"

	"github.com/uslugo/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to search
// activity events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.SearchActivityEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SearchActivityEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSearchActivity carries new-search-logged notifications used to
// invalidate suggestion caches
const EventChannelSearchActivity = "search:activity"
