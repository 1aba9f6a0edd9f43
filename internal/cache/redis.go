// Package cache holds the Redis-backed keyword cache and rate limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with domain-specific helpers.
type Cache struct {
	client *redis.Client
}

// PoolOptions tunes the Redis connection pool. Zero fields keep the defaults.
type PoolOptions struct {
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
}

var defaultPool = PoolOptions{
	PoolSize:        10,
	MinIdleConns:    2,
	PoolTimeout:     4 * time.Second,
	ConnMaxIdleTime: 5 * time.Minute,
}

// New connects to redisURL and verifies the connection with a ping.
func New(ctx context.Context, redisURL string, pool PoolOptions) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	p := mergePool(defaultPool, pool)
	opt.PoolSize = p.PoolSize
	opt.MinIdleConns = p.MinIdleConns
	opt.PoolTimeout = p.PoolTimeout
	opt.ConnMaxIdleTime = p.ConnMaxIdleTime

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func mergePool(base, override PoolOptions) PoolOptions {
	if override.PoolSize > 0 {
		base.PoolSize = override.PoolSize
	}
	if override.MinIdleConns > 0 {
		base.MinIdleConns = override.MinIdleConns
	}
	if override.PoolTimeout > 0 {
		base.PoolTimeout = override.PoolTimeout
	}
	if override.ConnMaxIdleTime > 0 {
		base.ConnMaxIdleTime = override.ConnMaxIdleTime
	}
	return base
}

// Ping checks Redis connectivity. Used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client for test cleanup.
func (c *Cache) Client() *redis.Client {
	return c.client
}
