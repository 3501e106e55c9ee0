package geocode

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache keeps geocoder lookups in Redis so repeated approvals of
// requests at the same address skip the provider round trip.
type RedisCache struct {
	client *redislib.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redislib.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

var _ Cache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	result, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redislib.Nil {
			c.logger.Warn("geocode cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("geocode cache write failed", zap.Error(err))
	}
}
