package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/uslugo/backend/internal/domain/providers"
)

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when Redis is unavailable.
// Counters are per-instance, so under a multi-instance deployment the
// effective limit is per-replica rather than global.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

// NewMemoryStore creates an in-memory rate limit store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

// Increment bumps the counter for key, resetting expired windows wholesale
func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &memoryWindow{expiresAt: now.Add(window)}
		s.windows[key] = w
	}

	w.count++
	return w.count, w.expiresAt, nil
}

var _ providers.RateLimitStore = (*MemoryStore)(nil)
