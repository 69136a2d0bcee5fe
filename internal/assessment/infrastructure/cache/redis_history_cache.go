// Package cache provides a Redis-backed read cache for measurement history.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/redis/go-redis/v9"
)

const historyKey = "cmas:history:all"

// RedisHistoryCache caches the full measurement history as one JSON value.
// All failures degrade to a miss; the cache never makes a read fail.
type RedisHistoryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisHistoryCache creates a history cache with the given TTL.
func NewRedisHistoryCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisHistoryCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisHistoryCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached history, or ok=false on a miss.
func (c *RedisHistoryCache) Get(ctx context.Context) ([]domain.Measurement, bool) {
	data, err := c.client.Get(ctx, historyKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("history cache read failed", "error", err)
		return nil, false
	}

	var measurements []domain.Measurement
	if err := json.Unmarshal(data, &measurements); err != nil {
		c.logger.Warn("history cache payload corrupt, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return measurements, true
}

// Set stores the history. Write failures are logged and swallowed.
func (c *RedisHistoryCache) Set(ctx context.Context, measurements []domain.Measurement) {
	data, err := json.Marshal(measurements)
	if err != nil {
		c.logger.Warn("history cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, historyKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("history cache write failed", "error", err)
	}
}

// Invalidate drops the cached history, forcing the next read through to the
// store. Called after a new measurement lands.
func (c *RedisHistoryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, historyKey).Err(); err != nil {
		c.logger.Warn("history cache invalidation failed", "error", err)
	}
}
