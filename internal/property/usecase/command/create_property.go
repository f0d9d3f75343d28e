package command

import (
	"context"
	"strings"

	"github.com/propmanagement/backend/internal/property/domain"
	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/logger"
)

// CreatePropertyCommand represents the command to publish a new listing
type CreatePropertyCommand struct {
	OwnerID      uint
	OwnerName    string
	Title        string
	Description  string
	Location     string
	PropertyType string
	Rent         float64
	BHK          int
	Bath         int
	Size         float64
	Furnishing   string
	Amenities    []string
	ImageURLs    []string
	// AutoApprove publishes the listing immediately; only set for administrators
	AutoApprove bool
}

type CreatePropertyHandler struct {
	repo domain.PropertyRepository
}

func NewCreatePropertyHandler(repo domain.PropertyRepository) *CreatePropertyHandler {
	return &CreatePropertyHandler{repo: repo}
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*domain.Property, error) {
	if cmd.OwnerID == 0 {
		return nil, apperror.Validation("owner is required")
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, apperror.Validation("title is required")
	}
	if strings.TrimSpace(cmd.Location) == "" {
		return nil, apperror.Validation("location is required")
	}
	if cmd.Rent <= 0 {
		return nil, apperror.Validation("rent must be positive")
	}
	if cmd.BHK < 0 || cmd.Bath < 0 || cmd.Size < 0 {
		return nil, apperror.Validation("bhk, bath and size cannot be negative")
	}

	furnishing := strings.ToUpper(strings.TrimSpace(cmd.Furnishing))
	switch furnishing {
	case "", domain.FurnishingFurnished, domain.FurnishingSemiFurnished, domain.FurnishingUnfurnished:
	default:
		return nil, apperror.Validation("furnishing must be FURNISHED, SEMI_FURNISHED or UNFURNISHED")
	}

	property := &domain.Property{
		OwnerID:      cmd.OwnerID,
		OwnerName:    strings.TrimSpace(cmd.OwnerName),
		Title:        strings.TrimSpace(cmd.Title),
		Description:  cmd.Description,
		Location:     strings.TrimSpace(cmd.Location),
		PropertyType: cmd.PropertyType,
		Rent:         cmd.Rent,
		BHK:          cmd.BHK,
		Bath:         cmd.Bath,
		Size:         cmd.Size,
		Furnishing:   furnishing,
		Amenities:    cmd.Amenities,
		ImageURLs:    cmd.ImageURLs,
		Approved:     cmd.AutoApprove,
	}

	if err := h.repo.Create(ctx, property); err != nil {
		return nil, apperror.Internal("failed to create property", err)
	}

	logger.Info(ctx).
		Uint("property_id", property.ID).
		Uint("owner_id", property.OwnerID).
		Bool("approved", property.Approved).
		Msg("Property created")

	return property, nil
}
