package providers

import (
	"context"
	"time"
)

// RateLimitStore is the backing counter store for the sliding-window rate
// limiter. Increment must be atomic for concurrent callers of the same key:
// the window starts on the first request, the count rises until expiry, and
// on expiry the window resets wholesale with no partial carry-over.
type RateLimitStore interface {
	// Increment bumps the counter for key, starting a new window of the
	// given duration if none is active. Returns the post-increment count and
	// the window's expiry time.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, expiresAt time.Time, err error)
}
