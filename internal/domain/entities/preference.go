package entities

import (
	"time"
)

// UserSearchPreference is the derived per-user search profile. It is owned
// by the recomputation routine and always overwritten wholesale; request
// handlers never patch individual fields.
type UserSearchPreference struct {
	UserID              string    `json:"user_id" db:"user_id"`
	PreferredCategories []string  `json:"preferred_categories" db:"-"`
	PreferredCities     []string  `json:"preferred_cities" db:"-"`
	PreferredType       string    `json:"preferred_type" db:"preferred_type"`
	SearchFrequency     string    `json:"search_frequency" db:"search_frequency"`
	ComputedAt          time.Time `json:"computed_at" db:"computed_at"`
}
