// Package cache keeps dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/gst-billing-api/internal/application/analytics"
	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/pkg/config"
)

var (
	_ analytics.SummaryCache     = (*SummaryCache)(nil)
	_ billing.SummaryInvalidator = (*SummaryCache)(nil)
)

const keyPrefix = "gst:summary:"

// SummaryCache stores one JSON summary per user with a TTL.
// A nil *SummaryCache behaves as an always-empty cache.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient opens a Redis client and pings it. Returns (nil, nil) when Redis is not configured.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewSummaryCache returns nil when client is nil.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryCache{client: client, ttl: ttl}
}

// Key returns the Redis key of a user's summary.
func Key(userID string) string {
	return keyPrefix + userID
}

func (c *SummaryCache) Get(ctx context.Context, userID string) (*dto.DashboardSummaryDTO, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &out, nil
}

func (c *SummaryCache) Set(ctx context.Context, userID string, summary *dto.DashboardSummaryDTO) error {
	if c == nil || summary == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, Key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the user's summary after a billing write.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}
