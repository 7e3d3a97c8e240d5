// internal/services/rating_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
)

type savedAggregate struct {
	rating *float64
	count  int64
}

// fakeReviewStore serves canned live ratings and records what the
// service persists.
type fakeReviewStore struct {
	userRatings  map[uuid.UUID][]int
	storeRatings map[uuid.UUID][]int
	savedUser    map[uuid.UUID]savedAggregate
	savedStore   map[uuid.UUID]savedAggregate
	readErr      error
	saveErr      error
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{
		userRatings:  make(map[uuid.UUID][]int),
		storeRatings: make(map[uuid.UUID][]int),
		savedUser:    make(map[uuid.UUID]savedAggregate),
		savedStore:   make(map[uuid.UUID]savedAggregate),
	}
}

func (f *fakeReviewStore) UserReviewRatings(_ context.Context, userID uuid.UUID, _ models.ReviewType) ([]int, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.userRatings[userID], nil
}

func (f *fakeReviewStore) StoreReviewRatings(_ context.Context, storeID uuid.UUID) ([]int, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.storeRatings[storeID], nil
}

func (f *fakeReviewStore) SaveUserRating(_ context.Context, userID uuid.UUID, rating *float64, count int64) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedUser[userID] = savedAggregate{rating: rating, count: count}
	return nil
}

func (f *fakeReviewStore) SaveStoreRating(_ context.Context, storeID uuid.UUID, rating *float64, count int64) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedStore[storeID] = savedAggregate{rating: rating, count: count}
	return nil
}

func TestUpdateUserRatingComputesMean(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewRatingService(store)
	userID := uuid.New()
	store.userRatings[userID] = []int{5, 3, 4}

	mean, err := svc.UpdateUserRating(context.Background(), userID, models.ReviewTypeDriver)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.Equal(t, 4.0, *mean)

	saved := store.savedUser[userID]
	require.NotNil(t, saved.rating)
	assert.Equal(t, 4.0, *saved.rating)
	assert.Equal(t, int64(3), saved.count)
}

func TestUpdateUserRatingTracksDeletions(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewRatingService(store)
	userID := uuid.New()
	store.userRatings[userID] = []int{5, 3, 4}

	_, err := svc.UpdateUserRating(context.Background(), userID, models.ReviewTypeDriver)
	require.NoError(t, err)

	// The rating-3 review is deleted; the recompute never drifts from the
	// live set.
	store.userRatings[userID] = []int{5, 4}

	mean, err := svc.UpdateUserRating(context.Background(), userID, models.ReviewTypeDriver)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.Equal(t, 4.5, *mean)
	assert.Equal(t, int64(2), store.savedUser[userID].count)
}

func TestUpdateUserRatingEmptySetClearsAggregate(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewRatingService(store)
	userID := uuid.New()

	mean, err := svc.UpdateUserRating(context.Background(), userID, models.ReviewTypeCustomer)
	require.NoError(t, err)
	assert.Nil(t, mean, "no reviews means no rating, not a zero rating")

	saved, ok := store.savedUser[userID]
	require.True(t, ok, "the cleared aggregate must still be persisted")
	assert.Nil(t, saved.rating)
	assert.Zero(t, saved.count)
}

func TestUpdateStoreRating(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewRatingService(store)
	storeID := uuid.New()
	store.storeRatings[storeID] = []int{4, 4, 5}

	mean, err := svc.UpdateStoreRating(context.Background(), storeID)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.InDelta(t, 4.333, *mean, 0.001)
	assert.Equal(t, int64(3), store.savedStore[storeID].count)
}

func TestUpdateRatingPropagatesStoreErrors(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewRatingService(store)
	userID := uuid.New()

	store.readErr = errors.New("database error")
	_, err := svc.UpdateUserRating(context.Background(), userID, models.ReviewTypeDriver)
	assert.Error(t, err)
	assert.Empty(t, store.savedUser, "nothing is persisted when the read fails")

	store.readErr = nil
	store.saveErr = errors.New("database error")
	_, err = svc.UpdateStoreRating(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestMeanRating(t *testing.T) {
	assert.Nil(t, meanRating(nil))
	assert.Nil(t, meanRating([]int{}))

	single := meanRating([]int{5})
	require.NotNil(t, single)
	assert.Equal(t, 5.0, *single)

	half := meanRating([]int{5, 4})
	require.NotNil(t, half)
	assert.Equal(t, 4.5, *half)
}
