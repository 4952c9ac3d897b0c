package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	categoryKey = "catalogo:categories"
	categoryTTL = 10 * time.Minute
)

// CategoryEntry is one cached store category.
type CategoryEntry struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// CategoryCache keeps the external category list in Redis so catalog reads
// do not hit the store API on every request.
type CategoryCache struct {
	redis *RedisClient
}

// NewCategoryCache creates a new CategoryCache.
func NewCategoryCache(redis *RedisClient) *CategoryCache {
	return &CategoryCache{redis: redis}
}

// Get returns the cached category list, or (nil, nil) on a miss.
func (c *CategoryCache) Get(ctx context.Context) ([]CategoryEntry, error) {
	raw, err := c.redis.Get(ctx, categoryKey)
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []CategoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached categories: %w", err)
	}
	return entries, nil
}

// Set stores the category list with the standard TTL.
func (c *CategoryCache) Set(ctx context.Context, entries []CategoryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return c.redis.Set(ctx, categoryKey, string(raw), categoryTTL)
}

// Invalidate drops the cached category list.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, categoryKey)
}
