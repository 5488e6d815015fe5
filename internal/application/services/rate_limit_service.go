package services

import (
	"context"
	"log"
	"time"

	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/pkg/config"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitService enforces per-action request budgets over a fixed window.
// Store failures fail OPEN: a broken Redis must never take search down with
// it, so the request is allowed with a full remaining budget.
type RateLimitService struct {
	store providers.RateLimitStore
	cfg   config.RateLimitConfig
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(store providers.RateLimitStore, cfg config.RateLimitConfig) *RateLimitService {
	return &RateLimitService{store: store, cfg: cfg}
}

// Check records one request for the client under the given action namespace
// and decides whether it may proceed
func (s *RateLimitService) Check(ctx context.Context, action, clientKey string) Decision {
	rule := s.rule(action)
	window := time.Duration(rule.WindowSeconds) * time.Second

	allowAll := Decision{
		Allowed:   true,
		Limit:     rule.Limit,
		Remaining: rule.Limit,
		ResetAt:   time.Now().Add(window),
	}

	if s.store == nil || rule.Limit <= 0 {
		return allowAll
	}

	count, expiresAt, err := s.store.Increment(ctx, action+":"+clientKey, window)
	if err != nil {
		log.Printf("Warning: rate limit store error for %s, allowing request: %v", action, err)
		return allowAll
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetAt:   expiresAt,
	}
}

// Rate limit action namespaces
const (
	RateLimitActionSemantic = "semantic"
	RateLimitActionRewrite  = "rewrite"
	RateLimitActionSuggest  = "suggest"
)

func (s *RateLimitService) rule(action string) config.RateLimitRule {
	switch action {
	case RateLimitActionRewrite:
		return s.cfg.Rewrite
	case RateLimitActionSuggest:
		return s.cfg.Suggest
	default:
		return s.cfg.Semantic
	}
}
