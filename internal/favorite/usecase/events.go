package usecase

import (
	"context"

	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/logger"
)

// EventPublisher publishes favorite lifecycle events
type EventPublisher interface {
	PublishFavoriteEvent(ctx context.Context, event kafka.FavoriteEvent) error
}

// Publish sends event and only logs a failure; the database stays the source of truth.
func Publish(ctx context.Context, events EventPublisher, event kafka.FavoriteEvent) {
	if err := events.PublishFavoriteEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("user_id", event.UserID).
			Uint("property_id", event.PropertyID).
			Msg("Failed to publish favorite event")
	}
}
