package routes

import (
	"net/http"

	"github.com/uslugo/backend/internal/api/handlers"
	"github.com/uslugo/backend/internal/api/middleware"
	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler     *handlers.SearchHandler
	suggestionHandler *handlers.SuggestionHandler
	analyticsHandler  *handlers.AnalyticsHandler

	rateLimit *middleware.RateLimitMiddleware
	metrics   *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	suggestionHandler *handlers.SuggestionHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	rateLimit *middleware.RateLimitMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		searchHandler:     searchHandler,
		suggestionHandler: suggestionHandler,
		analyticsHandler:  analyticsHandler,
		rateLimit:         rateLimit,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints; every provider-cost operation passes the rate limiter
	r.mux.HandleFunc("GET /api/search",
		r.rateLimit.Limit(services.RateLimitActionSemantic, r.searchHandler.Search))
	r.mux.HandleFunc("POST /api/search/rewrite",
		r.rateLimit.Limit(services.RateLimitActionRewrite, r.searchHandler.Rewrite))
	r.mux.HandleFunc("GET /api/search/suggestions",
		r.rateLimit.Limit(services.RateLimitActionSuggest, r.suggestionHandler.Suggest))

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)

	// Scheduler endpoints
	r.mux.HandleFunc("POST /internal/cron/preferences/recompute", r.analyticsHandler.RecomputePreferences)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are present on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
