package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/infrastructure/observability"
)

// RateLimitMiddleware enforces per-action request budgets on provider-cost
// endpoints
type RateLimitMiddleware struct {
	service *services.RateLimitService
	metrics *observability.Metrics
}

// NewRateLimitMiddleware creates a new rate limit middleware. metrics may be
// nil.
func NewRateLimitMiddleware(service *services.RateLimitService, metrics *observability.Metrics) *RateLimitMiddleware {
	return &RateLimitMiddleware{service: service, metrics: metrics}
}

// Limit wraps a handler with the budget for the given action namespace
func (m *RateLimitMiddleware) Limit(action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := m.service.Check(r.Context(), action, clientIP(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			if m.metrics != nil {
				observability.RecordRateLimitRejection(r.Context(), m.metrics, action)
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next(w, r)
	}
}

// clientIP resolves the caller's address, trusting the first entry of
// X-Forwarded-For when present (the service runs behind a reverse proxy)
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
