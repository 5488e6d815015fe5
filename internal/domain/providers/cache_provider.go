package providers

import (
	"context"
)

// CacheProvider defines the interface for caching operations.
// A nil CacheProvider is valid everywhere: callers treat an absent cache
// exactly like a permanent miss, never as an error.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes all keys under a namespace prefix. O(keys);
	// invoked sparingly on content-change events, never per request.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
