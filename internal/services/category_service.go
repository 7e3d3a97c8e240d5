// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

// CategoryService is read-only; categories are seeded at startup and
// managed out of band.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ListCategories returns the active category tree, root categories with
// their active children, ordered by sort order.
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Where("parent_id IS NULL AND is_active = ?", true).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("categories.sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return categories, nil
}

func (s *CategoryService) GetCategory(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("categories.sort_order ASC")
		}).
		First(&category, "id = ? AND is_active = ?", categoryID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &category, nil
}
