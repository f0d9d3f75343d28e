package domain

import (
	"context"
	"errors"
	"time"
)

var ErrPropertyNotFound = errors.New("property not found")

// Furnishing options
const (
	FurnishingFurnished     = "FURNISHED"
	FurnishingSemiFurnished = "SEMI_FURNISHED"
	FurnishingUnfurnished   = "UNFURNISHED"
)

// Property is a rental listing published by an owner
type Property struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OwnerID      uint      `json:"ownerId" gorm:"index"`
	OwnerName    string    `json:"ownerName"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Location     string    `json:"location" gorm:"index"`
	PropertyType string    `json:"propertyType"`
	Rent         float64   `json:"rent" gorm:"not null"`
	BHK          int       `json:"bhk"`
	Bath         int       `json:"bath"`
	Size         float64   `json:"size"`
	Furnishing   string    `json:"furnishing"`
	Amenities    []string  `json:"amenities" gorm:"serializer:json"`
	ImageURLs    []string  `json:"imageUrls" gorm:"serializer:json"`
	Approved     bool      `json:"approved" gorm:"default:false"`
	Flagged      bool      `json:"flagged" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Property) TableName() string {
	return "properties"
}

// IsVisible reports whether the listing may be shown to the public
func (p *Property) IsVisible() bool {
	return p.Approved && !p.Flagged
}

// ListFilter narrows a property listing
type ListFilter struct {
	Location     string
	ApprovedOnly bool
	Limit        int
	Offset       int
}

// PropertyRepository defines the contract for property data access
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id uint) (*Property, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Property, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}
