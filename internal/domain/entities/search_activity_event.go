package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SearchActivityType represents the type of search activity event
type SearchActivityType string

const (
	// SearchActivityLogged is published after a search event is written to
	// the query log; subscribers use it to sweep stale suggestion caches.
	SearchActivityLogged SearchActivityType = "search_logged"
)

// SearchActivityEvent is a real-time notification of new search behavior data
type SearchActivityEvent struct {
	ID        string             `json:"id"`
	EventType SearchActivityType `json:"event_type"`
	Query     string             `json:"query"`
	UserID    string             `json:"user_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewSearchActivityEvent creates a new search activity event
func NewSearchActivityEvent(eventType SearchActivityType, query, userID string) *SearchActivityEvent {
	return &SearchActivityEvent{
		ID:        generateEventID(),
		EventType: eventType,
		Query:     query,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)[:length]
}
