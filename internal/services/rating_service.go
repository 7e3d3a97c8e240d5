// internal/services/rating_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

// ReviewStore is the review-aggregation port: it reads the live ratings
// for a target and persists the recomputed aggregate.
type ReviewStore interface {
	UserReviewRatings(ctx context.Context, userID uuid.UUID, reviewType models.ReviewType) ([]int, error)
	StoreReviewRatings(ctx context.Context, storeID uuid.UUID) ([]int, error)
	SaveUserRating(ctx context.Context, userID uuid.UUID, rating *float64, count int64) error
	SaveStoreRating(ctx context.Context, storeID uuid.UUID, rating *float64, count int64) error
}

// RatingService recomputes rating aggregates from the full live review
// set on every change. The recompute is deliberately not incremental:
// deletes and edits fall out of the mean for free, at the cost of one
// aggregate read per write.
type RatingService struct {
	store ReviewStore
}

func NewRatingService(store ReviewStore) *RatingService {
	return &RatingService{store: store}
}

// UpdateUserRating recomputes a user's aggregate over live reviews of
// the given type and persists it. An empty review set clears the
// aggregate to nil with count 0; it never stores a zero rating.
func (s *RatingService) UpdateUserRating(ctx context.Context, userID uuid.UUID, reviewType models.ReviewType) (*float64, error) {
	ratings, err := s.store.UserReviewRatings(ctx, userID, reviewType)
	if err != nil {
		return nil, err
	}

	mean := meanRating(ratings)
	if err := s.store.SaveUserRating(ctx, userID, mean, int64(len(ratings))); err != nil {
		return nil, err
	}

	return mean, nil
}

// UpdateStoreRating recomputes a store's aggregate over all its live
// reviews.
func (s *RatingService) UpdateStoreRating(ctx context.Context, storeID uuid.UUID) (*float64, error) {
	ratings, err := s.store.StoreReviewRatings(ctx, storeID)
	if err != nil {
		return nil, err
	}

	mean := meanRating(ratings)
	if err := s.store.SaveStoreRating(ctx, storeID, mean, int64(len(ratings))); err != nil {
		return nil, err
	}

	return mean, nil
}

func meanRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))

	return &mean
}
