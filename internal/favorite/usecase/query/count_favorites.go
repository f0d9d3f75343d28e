package query

import (
	"context"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/pkg/apperror"
)

type CountFavoritesQuery struct {
	UserID uint
}

type CountFavoritesHandler struct {
	repo domain.FavoriteRepository
}

func NewCountFavoritesHandler(repo domain.FavoriteRepository) *CountFavoritesHandler {
	return &CountFavoritesHandler{repo: repo}
}

func (h *CountFavoritesHandler) Handle(ctx context.Context, query CountFavoritesQuery) (int64, error) {
	count, err := h.repo.CountByUser(ctx, query.UserID)
	if err != nil {
		return 0, apperror.Internal("failed to count favorites", err)
	}
	return count, nil
}
