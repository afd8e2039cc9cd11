package tariff

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-parking/internal/billing"
)

const cacheKey = "tariff:latest"

// Cache keeps a snapshot of the active tariff in Redis. Tariff changes are
// rare relative to session churn, so reads are served from the snapshot and
// the key is dropped whenever a new tariff is created.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached tariff snapshot and whether it existed.
func (c *Cache) Get(ctx context.Context) (billing.Tariff, bool, error) {
	if c == nil || c.client == nil {
		return billing.Tariff{}, false, nil
	}
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return billing.Tariff{}, false, nil
		}
		return billing.Tariff{}, false, err
	}
	var t billing.Tariff
	if err := json.Unmarshal(data, &t); err != nil {
		return billing.Tariff{}, false, err
	}
	return t, true, nil
}

// Set stores the tariff snapshot with the configured TTL.
func (c *Cache) Set(ctx context.Context, t billing.Tariff) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, data, c.ttl).Err()
}

// Invalidate drops the snapshot so the next read refreshes from the database.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey).Err()
}
