// Package cache provides a Redis-backed read cache for products. It is an
// optimization layer only: every failure path degrades to a cache miss so
// callers never see a cache error.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"product-catalog/internal/domain"
)

// RedisCache caches serialized products keyed by id.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr and verifies the connection with
// a ping before returning.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct returns the cached product and true on a hit. Misses,
// transport errors and stale payloads all report (nil, false).
func (c *RedisCache) GetProduct(ctx context.Context, id int64) (*domain.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("WARN: cache get for product %d failed: %v", id, err)
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		log.Printf("WARN: cache payload for product %d is malformed, dropping: %v", id, err)
		c.client.Del(ctx, productKey(id))
		return nil, false
	}
	return &product, true
}

// SetProduct stores the product under its id with the configured TTL.
func (c *RedisCache) SetProduct(ctx context.Context, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		log.Printf("WARN: cache marshal for product %d failed: %v", product.ID, err)
		return
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		log.Printf("WARN: cache set for product %d failed: %v", product.ID, err)
	}
}

// Invalidate drops the cached entry for id, if any.
func (c *RedisCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("WARN: cache invalidate for product %d failed: %v", id, err)
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
