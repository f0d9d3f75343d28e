package query

import (
	"context"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/pkg/apperror"
)

type CheckFavoriteQuery struct {
	UserID     uint
	PropertyID uint
}

type CheckFavoriteHandler struct {
	repo       domain.FavoriteRepository
	users      domain.UserReader
	properties domain.PropertyReader
}

func NewCheckFavoriteHandler(repo domain.FavoriteRepository, users domain.UserReader, properties domain.PropertyReader) *CheckFavoriteHandler {
	return &CheckFavoriteHandler{repo: repo, users: users, properties: properties}
}

// Handle reports whether the pair is favorited; unknown users or properties are simply false
func (h *CheckFavoriteHandler) Handle(ctx context.Context, query CheckFavoriteQuery) (bool, error) {
	if _, err := usecase.RequireUser(ctx, h.users, query.UserID); err != nil {
		if usecase.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := usecase.RequireProperty(ctx, h.properties, query.PropertyID); err != nil {
		if usecase.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	exists, err := h.repo.ExistsByUserAndProperty(ctx, query.UserID, query.PropertyID)
	if err != nil {
		return false, apperror.Internal("failed to check favorite", err)
	}
	return exists, nil
}
