package handlers

import (
	"net/http"
	"strconv"

	"github.com/uslugo/backend/internal/application/services"
)

// AnalyticsHandler exposes query-log analytics for ops tooling
type AnalyticsHandler struct {
	analyticsService  *services.SearchAnalyticsService
	preferenceService *services.PreferenceService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.SearchAnalyticsService, preferenceService *services.PreferenceService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analyticsService,
		preferenceService: preferenceService,
	}
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries.
// Surfacing searches that matched nothing highlights content gaps in the
// listing inventory.
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = val
	}

	events, err := h.analyticsService.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}

// RecomputePreferences handles POST /internal/cron/preferences/recompute.
// Invoked by the scheduler, not by end users.
func (h *AnalyticsHandler) RecomputePreferences(w http.ResponseWriter, r *http.Request) {
	recomputed, err := h.preferenceService.RecomputeAll(r.Context(), 1000)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recomputed": recomputed,
	})
}
