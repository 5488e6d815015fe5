package handlers

import (
	"net/http"
	"strconv"

	"github.com/uslugo/backend/internal/application/services"
)

// SuggestionHandler handles suggestion HTTP requests
type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// Suggest handles GET /api/search/suggestions. Caller identity comes from
// the X-User-ID header; absence yields the anonymous trending/popular blend.
func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = val
	}

	userID := r.Header.Get("X-User-ID")

	response, err := h.suggestionService.Suggest(r.Context(), userID, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
