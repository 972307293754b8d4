package authsvc

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goliatone/go-errors"
)

// RedisCache is a Cache backed by a shared redis instance, for deployments
// running more than one service replica.
type RedisCache struct {
	client *redis.Client
	logger Logger
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to redis and verifies the connection before
// returning. Cache wiring is optional; callers fall back to MemoryCache
// when no redis address is configured.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, errors.CategoryInternal, "redis connection failed").
			WithMetadata(map[string]any{"addr": addr})
	}

	return &RedisCache{
		client: client,
		logger: defLogger{},
	}, nil
}

func (c *RedisCache) WithLogger(logger Logger) *RedisCache {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("redis delete failed", "keys", keys, "error", err)
	}
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
