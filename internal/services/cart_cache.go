// internal/services/cart_cache.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/config"
)

// ErrCacheMiss is returned when no summary is cached for a cart.
var ErrCacheMiss = errors.New("cache miss")

// CartCache keeps computed cart summaries in Redis so repeated summary
// reads between mutations skip the catalog walk. Losing the cache is
// never an error; the summary recomputes from Postgres.
type CartCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartCache(cfg config.RedisConfig, ttl time.Duration) *CartCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &CartCache{client: client, ttl: ttl}
}

// NewCartCacheWithClient wraps an existing client. Used by tests.
func NewCartCacheWithClient(client *redis.Client, ttl time.Duration) *CartCache {
	return &CartCache{client: client, ttl: ttl}
}

func (c *CartCache) GetSummary(ctx context.Context, cartID uuid.UUID) (*CartSummary, error) {
	payload, err := c.client.Get(ctx, summaryKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache error: %w", err)
	}

	var summary CartSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("cache error: %w", err)
	}

	return &summary, nil
}

func (c *CartCache) SetSummary(ctx context.Context, cartID uuid.UUID, summary *CartSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(cartID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}

	return nil
}

func (c *CartCache) InvalidateSummary(ctx context.Context, cartID uuid.UUID) error {
	if err := c.client.Del(ctx, summaryKey(cartID)).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (c *CartCache) Close() error {
	return c.client.Close()
}

func summaryKey(cartID uuid.UUID) string {
	return "cart:summary:" + cartID.String()
}
