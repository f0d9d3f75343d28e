package query

import (
	"context"
	"errors"

	"github.com/propmanagement/backend/internal/property/domain"
	"github.com/propmanagement/backend/pkg/apperror"
)

type GetPropertyQuery struct {
	ID uint
	// IncludeHidden returns unapproved or flagged listings
	IncludeHidden bool
}

type GetPropertyHandler struct {
	repo domain.PropertyRepository
}

func NewGetPropertyHandler(repo domain.PropertyRepository) *GetPropertyHandler {
	return &GetPropertyHandler{repo: repo}
}

func (h *GetPropertyHandler) Handle(ctx context.Context, query GetPropertyQuery) (*domain.Property, error) {
	if query.ID == 0 {
		return nil, apperror.Validation("invalid property id")
	}

	property, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return nil, apperror.NotFound("Property not found")
		}
		return nil, apperror.Internal("failed to load property", err)
	}

	if !query.IncludeHidden && !property.IsVisible() {
		return nil, apperror.NotFound("Property not found")
	}

	return property, nil
}
