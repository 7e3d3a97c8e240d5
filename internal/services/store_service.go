// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type StoreService struct {
	db *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// ListStores returns active stores with text/tag filtering.
func (s *StoreService) ListStores(params utils.PaginationParams) ([]models.Store, int64, error) {
	query := s.db.Model(&models.Store{}).Where("is_active = ?", true)

	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}
	if params.Search != "" {
		query = query.Where(
			"to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', ?)",
			params.Search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "rating", "rating_count"})
	query = utils.ApplyPagination(query, params)

	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return stores, total, nil
}

func (s *StoreService) GetStore(storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := s.db.First(&store, "id = ? AND is_active = ?", storeID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("store not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &store, nil
}

func (s *StoreService) GetStoreBySlug(slug string) (*models.Store, error) {
	var store models.Store
	err := s.db.First(&store, "slug = ? AND is_active = ?", slug, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("store not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &store, nil
}
