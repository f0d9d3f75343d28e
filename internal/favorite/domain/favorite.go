package domain

import (
	"context"
	"errors"
	"time"

	propertydomain "github.com/propmanagement/backend/internal/property/domain"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
)

var (
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

// Favorite links a user to a property they saved. (UserID, PropertyID) is unique.
type Favorite struct {
	ID         uint                     `gorm:"primaryKey"`
	UserID     uint                     `gorm:"not null;uniqueIndex:idx_favorite_user_property,priority:1"`
	PropertyID uint                     `gorm:"not null;index;uniqueIndex:idx_favorite_user_property,priority:2"`
	CreatedAt  time.Time                `gorm:"autoCreateTime"`
	User       *userdomain.User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Property   *propertydomain.Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "property_favorites"
}

// FavoriteResponse is the representation returned to callers
type FavoriteResponse struct {
	ID        uint                     `json:"id"`
	UserID    uint                     `json:"userId"`
	Property  *propertydomain.Property `json:"property"`
	CreatedAt time.Time                `json:"createdAt"`
}

func NewFavoriteResponse(f *Favorite) *FavoriteResponse {
	return &FavoriteResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Property:  f.Property,
		CreatedAt: f.CreatedAt,
	}
}

// FavoriteRepository is the favorite store
type FavoriteRepository interface {
	// FindByUser returns the user's favorites in insertion order with their property loaded
	FindByUser(ctx context.Context, userID uint) ([]Favorite, error)
	// FindByUserAndProperty returns ErrFavoriteNotFound when no row matches
	FindByUserAndProperty(ctx context.Context, userID, propertyID uint) (*Favorite, error)
	ExistsByUserAndProperty(ctx context.Context, userID, propertyID uint) (bool, error)
	// DeleteByUserAndProperty returns the number of rows removed
	DeleteByUserAndProperty(ctx context.Context, userID, propertyID uint) (int64, error)
	// Save inserts favorite, returning ErrDuplicateFavorite when the pair already exists
	Save(ctx context.Context, favorite *Favorite) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// UserReader resolves users referenced by favorite operations
type UserReader interface {
	FindByID(ctx context.Context, id uint) (*userdomain.User, error)
}

// PropertyReader resolves properties referenced by favorite operations
type PropertyReader interface {
	FindByID(ctx context.Context, id uint) (*propertydomain.Property, error)
}
