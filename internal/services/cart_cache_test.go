// internal/services/cart_cache_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*CartCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCartCacheWithClient(client, time.Minute), mr
}

func TestCartCacheMiss(t *testing.T) {
	cache, _ := setupTestCache(t)

	_, err := cache.GetSummary(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCartCacheRoundTrip(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()

	summary := &CartSummary{
		Items: []CartSummaryItem{{
			ItemID:       itemID,
			ProductID:    productID,
			ProductName:  "Espresso Beans 1kg",
			Quantity:     2,
			UnitPrice:    10.00,
			CurrentPrice: 10.00,
			LineTotal:    20.00,
			Issue:        LineIssueOK,
		}},
		Subtotal:  20.00,
		ItemCount: 2,
	}

	require.NoError(t, cache.SetSummary(ctx, cartID, summary))
	assert.True(t, mr.Exists("cart:summary:"+cartID.String()))

	got, err := cache.GetSummary(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestCartCacheEntriesExpire(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()

	require.NoError(t, cache.SetSummary(ctx, cartID, &CartSummary{ItemCount: 1}))
	assert.Equal(t, time.Minute, mr.TTL("cart:summary:"+cartID.String()))

	mr.FastForward(2 * time.Minute)

	_, err := cache.GetSummary(ctx, cartID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCartCacheInvalidate(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	cartID := uuid.New()

	require.NoError(t, cache.SetSummary(ctx, cartID, &CartSummary{ItemCount: 1}))
	require.NoError(t, cache.InvalidateSummary(ctx, cartID))

	assert.False(t, mr.Exists("cart:summary:"+cartID.String()))
	_, err := cache.GetSummary(ctx, cartID)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Invalidating an absent key is a no-op, not an error.
	assert.NoError(t, cache.InvalidateSummary(ctx, cartID))
}

func TestCartCacheCorruptPayload(t *testing.T) {
	cache, mr := setupTestCache(t)
	cartID := uuid.New()

	require.NoError(t, mr.Set("cart:summary:"+cartID.String(), "{not json"))

	_, err := cache.GetSummary(context.Background(), cartID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

// countingCatalog counts catalog reads so cache hits are observable.
type countingCatalog struct {
	fakeCatalog
	reads int
}

func (c *countingCatalog) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	c.reads++
	return c.fakeCatalog.GetProduct(ctx, productID)
}

func TestCartServiceServesSummaryFromCache(t *testing.T) {
	cache, _ := setupTestCache(t)
	store := newFakeCartStore()
	catalog := &countingCatalog{fakeCatalog: fakeCatalog{products: make(map[uuid.UUID]*ProductInfo)}}
	svc := NewCartService(store, catalog, &fakeOrderCreator{}, cache)
	ctx := context.Background()
	userID := uuid.New()
	productID := seedProduct(&catalog.fakeCatalog, "Ceramic Mug", 9.00, 10)

	_, err := svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: productID, Quantity: 1})
	require.NoError(t, err)

	first, err := svc.GetCartSummary(ctx, userID)
	require.NoError(t, err)
	readsAfterCompute := catalog.reads

	second, err := svc.GetCartSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, readsAfterCompute, catalog.reads, "a warm cache skips the catalog walk")
	assert.Equal(t, first.Subtotal, second.Subtotal)

	// Any cart mutation drops the cached summary; the next read sees the
	// new line.
	_, err = svc.AddToCart(ctx, userID, &AddToCartRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)

	third, err := svc.GetCartSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, third.ItemCount)
	assert.Greater(t, catalog.reads, readsAfterCompute)
}
