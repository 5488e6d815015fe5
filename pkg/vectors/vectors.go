// Package vectors provides embedding vector math and wire-format helpers
// shared by the search pipeline and the indexer.
package vectors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cosine returns the cosine similarity of two vectors.
// A length mismatch is an error, not a degraded result: it signals an
// embedding model-version mismatch between indexed content and the query.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Serialize encodes a vector in the wire format the vector search primitive
// expects: bracketed comma-separated floats, no spaces.
func Serialize(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Parse decodes a vector from the bracketed comma-separated wire format.
func Parse(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed vector string: %q", truncate(s, 32))
	}

	inner := s[1 : len(s)-1]
	if inner == "" {
		return []float32{}, nil
	}

	parts := strings.Split(inner, ",")
	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("malformed vector component %d: %w", i, err)
		}
		v[i] = float32(f)
	}

	return v, nil
}

// DefaultEmbeddingPricePerMillionTokens is the approximate USD price for
// text-embedding-3-small, used for budgeting telemetry only.
const DefaultEmbeddingPricePerMillionTokens = 0.02

// EstimateCost approximates the monetary cost of embedding the given text.
// Uses the rough 4-characters-per-token heuristic; telemetry-grade, not
// billing-accurate.
func EstimateCost(text string, perMillionTokensUSD float64) float64 {
	tokens := float64(len(text)) / 4.0
	return tokens / 1_000_000 * perMillionTokensUSD
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
