package command

import (
	"context"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/logger"
)

// RemoveFavoriteCommand represents the command to unfavorite a property
type RemoveFavoriteCommand struct {
	UserID     uint
	PropertyID uint
}

// RemoveFavoriteHandler handles the idempotent remove favorite command
type RemoveFavoriteHandler struct {
	repo       domain.FavoriteRepository
	users      domain.UserReader
	properties domain.PropertyReader
	events     usecase.EventPublisher
}

func NewRemoveFavoriteHandler(
	repo domain.FavoriteRepository,
	users domain.UserReader,
	properties domain.PropertyReader,
	events usecase.EventPublisher,
) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo, users: users, properties: properties, events: events}
}

// Handle deletes the favorite for the pair. Removing a missing favorite succeeds.
func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) error {
	if cmd.UserID == 0 || cmd.PropertyID == 0 {
		return apperror.Validation("userId and propertyId are required")
	}

	if _, err := usecase.RequireUser(ctx, h.users, cmd.UserID); err != nil {
		return err
	}
	if _, err := usecase.RequireProperty(ctx, h.properties, cmd.PropertyID); err != nil {
		return err
	}

	removed, err := h.repo.DeleteByUserAndProperty(ctx, cmd.UserID, cmd.PropertyID)
	if err != nil {
		return apperror.Internal("failed to remove favorite", err)
	}
	if removed == 0 {
		return nil
	}

	logger.Info(ctx).
		Uint("user_id", cmd.UserID).
		Uint("property_id", cmd.PropertyID).
		Msg("Favorite removed")

	usecase.Publish(ctx, h.events, kafka.FavoriteEvent{
		EventType:  kafka.EventTypeFavoriteRemoved,
		UserID:     cmd.UserID,
		PropertyID: cmd.PropertyID,
	})
	return nil
}
