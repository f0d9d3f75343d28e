package query

import (
	"context"

	"github.com/propmanagement/backend/internal/property/domain"
	"github.com/propmanagement/backend/pkg/apperror"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ListPropertiesQuery represents the query to list properties
type ListPropertiesQuery struct {
	Limit         int
	Offset        int
	Location      string
	IncludeHidden bool
}

// PropertyPage is one page of a listing
type PropertyPage struct {
	Properties []domain.Property `json:"properties"`
	Total      int64             `json:"total"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

type ListPropertiesHandler struct {
	repo domain.PropertyRepository
}

func NewListPropertiesHandler(repo domain.PropertyRepository) *ListPropertiesHandler {
	return &ListPropertiesHandler{repo: repo}
}

func (h *ListPropertiesHandler) Handle(ctx context.Context, query ListPropertiesQuery) (*PropertyPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		query.Limit = maxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	filter := domain.ListFilter{
		Location:     query.Location,
		ApprovedOnly: !query.IncludeHidden,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}

	properties, err := h.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list properties", err)
	}
	total, err := h.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to count properties", err)
	}

	if properties == nil {
		properties = []domain.Property{}
	}

	return &PropertyPage{
		Properties: properties,
		Total:      total,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}, nil
}
