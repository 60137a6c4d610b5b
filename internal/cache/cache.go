// Package cache stores computed prediction results in Redis so repeated
// lookups within a day skip the forecast pipeline.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatpulse/chatpulse/internal/config"
	"github.com/chatpulse/chatpulse/internal/models"
)

// ResultCache caches prediction results keyed by group, target and
// horizon. A nil *ResultCache is a valid no-op cache.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns a ResultCache. Returns (nil, nil)
// when caching is disabled, which callers treat as cache-off.
func New(cfg config.CacheConfig) (*ResultCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing client (used in tests).
func NewWithClient(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func predictionKey(groupID, target string, horizonDays int) string {
	return fmt.Sprintf("predict:%s:%s:%d", groupID, target, horizonDays)
}

// GetPrediction returns the cached result, or nil on miss. Errors other
// than a miss are returned so callers can log them; a broken cache
// never blocks a prediction.
func (c *ResultCache) GetPrediction(ctx context.Context, groupID, target string, horizonDays int) (*models.PredictionResult, error) {
	if c == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, predictionKey(groupID, target, horizonDays)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var result models.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("cache entry corrupt: %w", err)
	}
	return &result, nil
}

// SetPrediction stores a result under the configured TTL.
func (c *ResultCache) SetPrediction(ctx context.Context, result *models.PredictionResult) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	key := predictionKey(result.GroupID, result.Target, result.HorizonDays)
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// InvalidateGroup drops all cached predictions for a group.
func (c *ResultCache) InvalidateGroup(ctx context.Context, groupID string) error {
	if c == nil {
		return nil
	}

	pattern := fmt.Sprintf("predict:%s:*", groupID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *ResultCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
