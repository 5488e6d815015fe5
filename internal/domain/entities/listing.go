package entities

import (
	"strings"
	"time"
)

// Listing represents a service listing in the marketplace
type Listing struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	CategoryID     string     `json:"category_id" db:"category_id"`
	CategoryName   string     `json:"category_name" db:"category_name"`
	City           string     `json:"city" db:"city"`
	District       string     `json:"district,omitempty" db:"district"`
	PriceMin       float64    `json:"price_min" db:"price_min"`
	PriceMax       float64    `json:"price_max" db:"price_max"`
	Rating         float64    `json:"rating" db:"rating"`
	ReviewCount    int        `json:"review_count" db:"review_count"`
	Embedding      []float32  `json:"-" db:"-"`
	EmbeddingModel string     `json:"-" db:"embedding_model"`
	EmbeddedAt     *time.Time `json:"-" db:"embedded_at"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// EmbeddingText composes the text a listing's embedding is generated from.
// The stored embedding is only valid for this exact composition; if any of
// these fields change after EmbeddedAt the embedding is stale.
func (l *Listing) EmbeddingText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Title, l.Description, l.CategoryName, l.City} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// NeedsEmbedding reports whether the listing's embedding is missing or stale
// for the given model.
func (l *Listing) NeedsEmbedding(model string) bool {
	if len(l.Embedding) == 0 || l.EmbeddedAt == nil {
		return true
	}
	if l.EmbeddingModel != model {
		return true
	}
	return l.UpdatedAt.After(*l.EmbeddedAt)
}

// MatchesCity reports whether the listing matches a city filter using
// case-insensitive containment against the city or district fields.
func (l *Listing) MatchesCity(city string) bool {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.City), city) ||
		strings.Contains(strings.ToLower(l.District), city)
}

// MatchesPriceRange reports whether the listing's price range overlaps the
// requested [min, max] bounds. A zero bound is treated as unset.
func (l *Listing) MatchesPriceRange(min, max float64) bool {
	if min > 0 && l.PriceMax < min {
		return false
	}
	if max > 0 && l.PriceMin > max {
		return false
	}
	return true
}
