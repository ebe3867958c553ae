package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"showhub/internal/model"
)

const (
	// CategoryCacheKey is the Redis key holding the category list.
	CategoryCacheKey = "categories:all"

	// CategoryCacheTTL bounds staleness. Categories are seeded once and
	// immutable at runtime, so a short TTL is plenty.
	CategoryCacheTTL = 10 * time.Minute
)

// CategoryCache caches the (small, immutable) category list.
// Using an interface enables testing with mocks and potential future backends.
type CategoryCache interface {
	// Get returns the cached list, or (nil, false) on miss.
	Get(ctx context.Context) ([]model.Category, bool, error)

	// Set stores the list with the standard TTL.
	Set(ctx context.Context, categories []model.Category) error
}

// RedisCategoryCache implements CategoryCache on a shared Redis client.
type RedisCategoryCache struct {
	client *redis.Client
}

// NewCategoryCache creates a CategoryCache backed by Redis.
func NewCategoryCache(client *redis.Client) CategoryCache {
	return &RedisCategoryCache{client: client}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]model.Category, bool, error) {
	data, err := c.client.Get(ctx, CategoryCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get category cache: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		return nil, false, nil
	}
	return categories, true, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []model.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := c.client.Set(ctx, CategoryCacheKey, data, CategoryCacheTTL).Err(); err != nil {
		return fmt.Errorf("set category cache: %w", err)
	}
	return nil
}
