package kafka

import "time"

// FavoriteEvent is published whenever a favorite is created or deleted
type FavoriteEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	FavoriteID uint      `json:"favorite_id"`
	UserID     uint      `json:"user_id"`
	PropertyID uint      `json:"property_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteAdded   = "favorite.added"
	EventTypeFavoriteRemoved = "favorite.removed"
)

// Kafka topics
const (
	TopicPropertyFavorites = "property-favorites"
)
