// internal/services/rating_store.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

type gormReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) ReviewStore {
	return &gormReviewStore{db: db}
}

func (s *gormReviewStore) UserReviewRatings(ctx context.Context, userID uuid.UUID, reviewType models.ReviewType) ([]int, error) {
	var ratings []int
	err := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("receiver_id = ? AND review_type = ?", userID, reviewType).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return ratings, nil
}

func (s *gormReviewStore) StoreReviewRatings(ctx context.Context, storeID uuid.UUID) ([]int, error) {
	var ratings []int
	err := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("store_id = ?", storeID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return ratings, nil
}

func (s *gormReviewStore) SaveUserRating(ctx context.Context, userID uuid.UUID, rating *float64, count int64) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"rating_count": count,
		})
	if result.Error != nil {
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

func (s *gormReviewStore) SaveStoreRating(ctx context.Context, storeID uuid.UUID, rating *float64, count int64) error {
	result := s.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"rating_count": count,
		})
	if result.Error != nil {
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("store not found")
	}

	return nil
}
