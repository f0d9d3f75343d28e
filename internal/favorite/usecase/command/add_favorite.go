package command

import (
	"context"
	"errors"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/logger"
)

// AddFavoriteCommand represents the command to favorite a property
type AddFavoriteCommand struct {
	UserID     uint
	PropertyID uint
}

// AddFavoriteHandler handles the idempotent add favorite command
type AddFavoriteHandler struct {
	repo       domain.FavoriteRepository
	users      domain.UserReader
	properties domain.PropertyReader
	events     usecase.EventPublisher
}

func NewAddFavoriteHandler(
	repo domain.FavoriteRepository,
	users domain.UserReader,
	properties domain.PropertyReader,
	events usecase.EventPublisher,
) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo, users: users, properties: properties, events: events}
}

// Handle returns the existing favorite for the pair when there is one, otherwise creates it.
// The unique index decides concurrent adds; the loser re-reads the winner's row.
func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) (*domain.FavoriteResponse, error) {
	if cmd.UserID == 0 || cmd.PropertyID == 0 {
		return nil, apperror.Validation("userId and propertyId are required")
	}

	if _, err := usecase.RequireUser(ctx, h.users, cmd.UserID); err != nil {
		return nil, err
	}
	property, err := usecase.RequireProperty(ctx, h.properties, cmd.PropertyID)
	if err != nil {
		return nil, err
	}

	existing, err := h.repo.FindByUserAndProperty(ctx, cmd.UserID, cmd.PropertyID)
	if err == nil {
		return domain.NewFavoriteResponse(existing), nil
	}
	if !errors.Is(err, domain.ErrFavoriteNotFound) {
		return nil, apperror.Internal("failed to look up favorite", err)
	}

	favorite := &domain.Favorite{
		UserID:     cmd.UserID,
		PropertyID: cmd.PropertyID,
	}
	if err := h.repo.Save(ctx, favorite); err != nil {
		winner, findErr := h.repo.FindByUserAndProperty(ctx, cmd.UserID, cmd.PropertyID)
		if findErr == nil {
			logger.Debug(ctx).
				Uint("user_id", cmd.UserID).
				Uint("property_id", cmd.PropertyID).
				Bool("duplicate", errors.Is(err, domain.ErrDuplicateFavorite)).
				Msg("Concurrent add resolved to existing favorite")
			return domain.NewFavoriteResponse(winner), nil
		}
		return nil, apperror.Internal("failed to add favorite", err)
	}
	favorite.Property = property

	logger.Info(ctx).
		Uint("favorite_id", favorite.ID).
		Uint("user_id", favorite.UserID).
		Uint("property_id", favorite.PropertyID).
		Msg("Favorite added")

	usecase.Publish(ctx, h.events, kafka.FavoriteEvent{
		EventType:  kafka.EventTypeFavoriteAdded,
		FavoriteID: favorite.ID,
		UserID:     favorite.UserID,
		PropertyID: favorite.PropertyID,
	})

	return domain.NewFavoriteResponse(favorite), nil
}
