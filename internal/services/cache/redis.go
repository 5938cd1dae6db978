package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pdminh/imagebatch/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores encoded outputs in Redis with a TTL. It satisfies
// the orchestrator's ResultCache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// HealthCheck pings Redis.
func (c *RedisCache) HealthCheck(ctx context.Context) string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
