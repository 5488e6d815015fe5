package services

import (
	"context"
	"log"
	"strings"

	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/providers"
)

// rewriteConfidence is the fixed heuristic attached when the provider
// changed the query. It is not a model-derived probability.
const rewriteConfidence = 0.85

// QueryRewriteService corrects typos and strips filler from raw queries
// using an LLM. Rewriting is an optimization: every failure path returns the
// original query unchanged so search never blocks on the provider.
type QueryRewriteService struct {
	provider providers.QueryRewriteProvider
}

// NewQueryRewriteService creates a new query rewrite service. A nil
// provider is valid and turns Rewrite into a pass-through.
func NewQueryRewriteService(provider providers.QueryRewriteProvider) *QueryRewriteService {
	return &QueryRewriteService{provider: provider}
}

// Rewrite returns the corrected form of the query
func (s *QueryRewriteService) Rewrite(ctx context.Context, query string) *entities.RewriteResult {
	original := strings.TrimSpace(query)

	unchanged := &entities.RewriteResult{
		Original:        original,
		Corrected:       original,
		NeedsCorrection: false,
		Confidence:      1.0,
	}

	if s.provider == nil || original == "" {
		return unchanged
	}

	corrected, err := s.provider.RewriteQuery(ctx, original)
	if err != nil {
		log.Printf("Warning: query rewrite failed for %q: %v", original, err)
		return unchanged
	}

	corrected = strings.TrimSpace(corrected)
	if corrected == "" || strings.EqualFold(corrected, original) {
		return unchanged
	}

	return &entities.RewriteResult{
		Original:        original,
		Corrected:       corrected,
		NeedsCorrection: true,
		Confidence:      rewriteConfidence,
	}
}
