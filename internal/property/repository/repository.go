package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/propmanagement/backend/internal/property/domain"
)

type GormPropertyRepository struct {
	db *gorm.DB
}

func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

func (r *GormPropertyRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Property{})
}

func (r *GormPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *GormPropertyRepository) FindByID(ctx context.Context, id uint) (*domain.Property, error) {
	var property domain.Property
	if err := r.db.WithContext(ctx).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return &property, nil
}

func (r *GormPropertyRepository) FindAll(ctx context.Context, filter domain.ListFilter) ([]domain.Property, error) {
	var properties []domain.Property
	query := r.filtered(ctx, filter).Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (r *GormPropertyRepository) Count(ctx context.Context, filter domain.ListFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func (r *GormPropertyRepository) filtered(ctx context.Context, filter domain.ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Property{})
	if filter.ApprovedOnly {
		query = query.Where("approved = ? AND flagged = ?", true, false)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}
	return query
}
