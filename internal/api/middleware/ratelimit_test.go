package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uslugo/backend/internal/adapters/ratelimit"
	"github.com/uslugo/backend/internal/api/middleware"
	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/pkg/config"
)

func newLimitedHandler(limit, windowSeconds int) http.HandlerFunc {
	svc := services.NewRateLimitService(ratelimit.NewMemoryStore(), config.RateLimitConfig{
		Semantic: config.RateLimitRule{Limit: limit, WindowSeconds: windowSeconds},
	})
	mw := middleware.NewRateLimitMiddleware(svc, nil)
	return mw.Limit(services.RateLimitActionSemantic, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_SixthRequestGets429(t *testing.T) {
	handler := newLimitedHandler(5, 10)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_HeadersOnAllowedRequest(t *testing.T) {
	handler := newLimitedHandler(30, 60)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "29", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_ForwardedForDistinguishesClients(t *testing.T) {
	handler := newLimitedHandler(1, 60)

	first := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
	first.RemoteAddr = "10.0.0.1:1111"
	first.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
	second.RemoteAddr = "10.0.0.1:1111"
	second.Header.Set("X-Forwarded-For", "203.0.113.8")
	rec = httptest.NewRecorder()
	handler(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code, "different forwarded client gets its own budget")

	third := httptest.NewRequest(http.MethodGet, "/api/search?q=test", nil)
	third.RemoteAddr = "10.0.0.1:1111"
	third.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	handler(rec, third)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
