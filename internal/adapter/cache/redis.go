// Package cache implements the session cache port on Redis. The cache mirrors
// refresh tokens so they can be revoked; the auth core treats it as
// best-effort and stays available when Redis is down.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iwork-app/iwork-backend/internal/port"
)

// RedisCache stores refresh tokens under refresh_token:{user_id}.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache parses the URL and returns a cache bound to that Redis.
// Connectivity is not verified here: a dead Redis degrades the cache, it does
// not block startup.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func refreshKey(userID string) string {
	return "refresh_token:" + userID
}

// SetRefreshToken stores the token with the given TTL.
func (c *RedisCache) SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, refreshKey(userID), token, ttl).Err()
}

// GetRefreshToken returns the stored token, or port.ErrCacheMiss when no
// value exists for the user.
func (c *RedisCache) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	val, err := c.client.Get(ctx, refreshKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", port.ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

// DeleteRefreshToken drops the stored token for the user.
func (c *RedisCache) DeleteRefreshToken(ctx context.Context, userID string) error {
	return c.client.Del(ctx, refreshKey(userID)).Err()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
