package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/propmanagement/backend/internal/favorite/domain"
	"github.com/propmanagement/backend/pkg/logger"
)

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// AutoMigrate creates the favorites table. Users and properties must be migrated first.
func (r *GormFavoriteRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Favorite{})
}

func (r *GormFavoriteRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	return favorites, nil
}

func (r *GormFavoriteRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uint) (*domain.Favorite, error) {
	var favorite domain.Favorite
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &favorite, nil
}

func (r *GormFavoriteRepository) ExistsByUserAndProperty(ctx context.Context, userID, propertyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// DeleteByUserAndProperty removes the pair inside a transaction
func (r *GormFavoriteRepository) DeleteByUserAndProperty(ctx context.Context, userID, propertyID uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&domain.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorite: %w", err)
	}

	if removed == 0 {
		logger.Debug(ctx).
			Uint("user_id", userID).
			Uint("property_id", propertyID).
			Msg("No favorite to delete")
	}
	return removed, nil
}

func (r *GormFavoriteRepository) Save(ctx context.Context, favorite *domain.Favorite) error {
	// Omit associations so a preloaded Property is never upserted
	err := r.db.WithContext(ctx).Omit("User", "Property").Create(favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to save favorite: %w", domain.ErrDuplicateFavorite)
		}
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

func (r *GormFavoriteRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

func (r *GormFavoriteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Favorite{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
