package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/parcel-service/internal/domain"
)

const adminStatsKey = "parcel-service:admin-stats"

// StatsCache keeps a short-lived copy of the admin dashboard figures.
type StatsCache interface {
	GetAdminStats(ctx context.Context) (*domain.AdminStats, bool, error)
	SetAdminStats(ctx context.Context, stats domain.AdminStats, ttl time.Duration) error
}

type redisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache returns a Redis-backed StatsCache.
func NewRedisStatsCache(client *redis.Client) StatsCache {
	return &redisStatsCache{client: client}
}

func (c *redisStatsCache) GetAdminStats(ctx context.Context) (*domain.AdminStats, bool, error) {
	raw, err := c.client.Get(ctx, adminStatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats domain.AdminStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

func (c *redisStatsCache) SetAdminStats(ctx context.Context, stats domain.AdminStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, adminStatsKey, raw, ttl).Err()
}
