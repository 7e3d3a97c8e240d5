// internal/services/review_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/config"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/database"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type ReviewService struct {
	db                  *gorm.DB
	ratingService       *RatingService
	notificationService *NotificationService
	editWindow          time.Duration
}

type CreateReviewRequest struct {
	ReceiverID *uuid.UUID        `json:"receiver_id,omitempty"`
	StoreID    *uuid.UUID        `json:"store_id,omitempty"`
	BookingID  *uuid.UUID        `json:"booking_id,omitempty"`
	ReviewType models.ReviewType `json:"review_type" validate:"required,oneof=driver_review customer_review store_review"`
	Rating     int               `json:"rating" validate:"required,min=1,max=5"`
	Comment    string            `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func NewReviewService(db *gorm.DB, cfg *config.Config, ratingService *RatingService, notificationService *NotificationService) *ReviewService {
	return &ReviewService{
		db:                  db,
		ratingService:       ratingService,
		notificationService: notificationService,
		editWindow:          time.Duration(cfg.Review.EditWindowHours) * time.Hour,
	}
}

// CreateReview validates and persists a review, then synchronously
// recomputes the target's rating aggregate. One review per
// (giver, booking, type) when booking-scoped.
func (s *ReviewService) CreateReview(giverID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkTarget(giverID, req); err != nil {
		return nil, err
	}

	if req.BookingID != nil {
		var count int64
		err := s.db.Model(&models.Review{}).
			Where("giver_id = ? AND booking_id = ? AND review_type = ?", giverID, req.BookingID, req.ReviewType).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, apperrors.InvalidInput("you have already reviewed this booking")
		}
	}

	review := &models.Review{
		GiverID:    giverID,
		ReceiverID: req.ReceiverID,
		StoreID:    req.StoreID,
		BookingID:  req.BookingID,
		ReviewType: req.ReviewType,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.recompute(review)
	go s.sendReviewNotification(review)

	return review, nil
}

// UpdateReview applies rating/comment changes for the giver within the
// edit window. The aggregate is recomputed only when the rating actually
// changed.
func (s *ReviewService) UpdateReview(userID, reviewID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := editGate(&review, userID, time.Now(), s.editWindow); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	ratingChanged := false
	if req.Rating != nil && *req.Rating != review.Rating {
		updates["rating"] = *req.Rating
		ratingChanged = true
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if len(updates) > 0 {
		if err := s.db.Model(&review).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	}

	if ratingChanged {
		s.recompute(&review)
	}

	return &review, nil
}

// DeleteReview soft-deletes the giver's review and recomputes the
// aggregate so the deleted rating stops counting immediately.
func (s *ReviewService) DeleteReview(userID, reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("review not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if review.GiverID != userID {
		return apperrors.Forbidden("only the review author can delete it")
	}

	if err := s.db.Delete(&review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.recompute(&review)

	return nil
}

func (s *ReviewService) GetReview(reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("Giver").First(&review, "id = ?", reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &review, nil
}

// ListUserReviews returns reviews received by a user, optionally
// filtered by type.
func (s *ReviewService) ListUserReviews(receiverID uuid.UUID, reviewType string, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("receiver_id = ?", receiverID)
	if reviewType != "" {
		query = query.Where("review_type = ?", reviewType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "rating", "helpful_count"})
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Preload("Giver").Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) ListStoreReviews(storeID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "rating", "helpful_count"})
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Preload("Giver").Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return reviews, total, nil
}

// VoteHelpful records one helpful vote per user per review. The vote row
// and the counter increment commit in the same transaction.
func (s *ReviewService) VoteHelpful(userID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ReviewVote{}).
			Where("review_id = ? AND user_id = ?", reviewID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return apperrors.InvalidInput("you have already voted on this review")
		}

		vote := &models.ReviewVote{ReviewID: reviewID, UserID: userID}
		if err := tx.Create(vote).Error; err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}

		err := tx.Model(&models.Review{}).
			Where("id = ?", reviewID).
			UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1")).Error
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &review, nil
}

// Helper methods
func (s *ReviewService) checkTarget(giverID uuid.UUID, req *CreateReviewRequest) error {
	switch req.ReviewType {
	case models.ReviewTypeStore:
		if req.StoreID == nil || req.ReceiverID != nil {
			return apperrors.InvalidInput("store reviews must target exactly one store")
		}
		var store models.Store
		if err := s.db.First(&store, "id = ?", req.StoreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("store not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

	case models.ReviewTypeDriver, models.ReviewTypeCustomer:
		if req.ReceiverID == nil || req.StoreID != nil {
			return apperrors.InvalidInput("user reviews must target exactly one user")
		}
		if *req.ReceiverID == giverID {
			return apperrors.InvalidInput("you cannot review yourself")
		}
		var receiver models.User
		if err := s.db.First(&receiver, "id = ?", req.ReceiverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return fmt.Errorf("database error: %w", err)
		}
		expected := models.UserRoleDriver
		if req.ReviewType == models.ReviewTypeCustomer {
			expected = models.UserRoleCustomer
		}
		if receiver.Role != expected {
			return apperrors.InvalidInput(fmt.Sprintf("receiver is not a %s", expected))
		}

	default:
		return apperrors.InvalidInput("unknown review type")
	}

	return nil
}

// editGate returns the typed error blocking an edit, or nil. Ownership
// is checked before the window so a stranger always sees Forbidden for
// the same reason regardless of review age.
func editGate(review *models.Review, userID uuid.UUID, now time.Time, window time.Duration) error {
	if review.GiverID != userID {
		return apperrors.Forbidden("only the review author can edit it")
	}
	if !review.EditableAt(now, window) {
		return apperrors.Forbidden("the edit window for this review has expired")
	}
	return nil
}

// recompute refreshes the target's aggregate. The review write already
// committed; a failed recompute is logged and the next review change
// repairs the aggregate, so the request does not fail.
func (s *ReviewService) recompute(review *models.Review) {
	ctx := context.Background()

	var err error
	switch {
	case review.StoreID != nil:
		_, err = s.ratingService.UpdateStoreRating(ctx, *review.StoreID)
	case review.ReceiverID != nil:
		_, err = s.ratingService.UpdateUserRating(ctx, *review.ReceiverID, review.ReviewType)
	}
	if err != nil {
		logrus.WithError(err).WithField("review_id", review.ID).Warn("rating recompute failed")
	}
}

func (s *ReviewService) sendReviewNotification(review *models.Review) {
	var recipient uuid.UUID
	switch {
	case review.ReceiverID != nil:
		recipient = *review.ReceiverID
	case review.StoreID != nil:
		var store models.Store
		if err := s.db.First(&store, "id = ?", review.StoreID).Error; err != nil {
			logrus.WithError(err).WithField("review_id", review.ID).Warn("review notification skipped")
			return
		}
		recipient = store.OwnerID
	default:
		return
	}

	data := models.JSONB{
		"review_id": review.ID.String(),
		"rating":    review.Rating,
	}
	err := s.notificationService.Create(recipient, models.NotificationTypeReviewReceived,
		"New review received", fmt.Sprintf("You received a %d-star review", review.Rating), data)
	if err != nil {
		logrus.WithError(err).WithField("review_id", review.ID).Warn("failed to create review notification")
	}
}
