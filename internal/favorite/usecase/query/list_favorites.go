package query

import (
	"context"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/pkg/apperror"
)

// ListFavoritesQuery represents the query to list a user's favorites
type ListFavoritesQuery struct {
	UserID uint
}

type ListFavoritesHandler struct {
	repo  domain.FavoriteRepository
	users domain.UserReader
}

func NewListFavoritesHandler(repo domain.FavoriteRepository, users domain.UserReader) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo, users: users}
}

// Handle returns the favorites in insertion order. An unknown user yields an
// empty list rather than an error; the HTTP boundary rejects unknown callers itself.
func (h *ListFavoritesHandler) Handle(ctx context.Context, query ListFavoritesQuery) ([]domain.FavoriteResponse, error) {
	if _, err := usecase.RequireUser(ctx, h.users, query.UserID); err != nil {
		if usecase.IsNotFound(err) {
			return []domain.FavoriteResponse{}, nil
		}
		return nil, err
	}

	favorites, err := h.repo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to load favorites", err)
	}

	responses := make([]domain.FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		responses = append(responses, *domain.NewFavoriteResponse(&favorites[i]))
	}
	return responses, nil
}
