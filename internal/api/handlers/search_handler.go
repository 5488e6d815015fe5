package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/domain/entities"
	apperrors "github.com/uslugo/backend/pkg/errors"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService  *services.SearchService
	rewriteService *services.QueryRewriteService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, rewriteService *services.QueryRewriteService) *SearchHandler {
	return &SearchHandler{
		searchService:  searchService,
		rewriteService: rewriteService,
	}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := &entities.SearchQuery{
		Query:  params.Get("q"),
		City:   params.Get("city"),
		SortBy: params.Get("sortBy"),
		UserID: r.Header.Get("X-User-ID"),
	}

	if raw := params.Get("priceMin"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val < 0 {
			respondWithError(w, http.StatusBadRequest, "priceMin must be a non-negative number")
			return
		}
		query.PriceMin = val
	}
	if raw := params.Get("priceMax"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val < 0 {
			respondWithError(w, http.StatusBadRequest, "priceMax must be a non-negative number")
			return
		}
		query.PriceMax = val
	}
	if raw := params.Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		query.Limit = val
	}

	response, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// Rewrite handles POST /api/search/rewrite
func (h *SearchHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := h.rewriteService.Rewrite(r.Context(), body.Query)
	respondWithJSON(w, http.StatusOK, result)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeRateLimited:
			respondWithError(w, http.StatusTooManyRequests, appErr.Message)
			return
		case apperrors.ErrorTypeUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
