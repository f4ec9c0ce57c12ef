// Package cache keeps the product catalog listing in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	productListPrefix = "products:v:"
	versionKey        = "products:version"
)

// ProductCache caches the catalog listing under a version key. Invalidate
// bumps the version so every previously cached listing becomes unreachable.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewProductCache creates a ProductCache whose entries expire after ttl.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

// GetProducts returns the cached listing. ok is false on a miss.
func (c *ProductCache) GetProducts(ctx context.Context) (products []models.Product, ok bool, err error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, listKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product list from cache: %w", err)
	}

	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached product list: %w", err)
	}
	return products, true, nil
}

// SetProducts caches the listing under the current version.
func (c *ProductCache) SetProducts(ctx context.Context, products []models.Product) error {
	version, err := c.version(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal product list: %w", err)
	}
	if err := c.client.Set(ctx, listKey(version), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product list: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing by bumping the version.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

func (c *ProductCache) version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache version: %w", err)
	}
	return version, nil
}

func listKey(version int64) string {
	return fmt.Sprintf("%s%d", productListPrefix, version)
}
