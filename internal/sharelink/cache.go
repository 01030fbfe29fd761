package sharelink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxCacheTTL bounds how long a resolved link is served from cache.
const maxCacheTTL = 10 * time.Minute

// Cache keeps recently resolved links by token.
type Cache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, token string) (*Link, error)
	Set(ctx context.Context, l *Link, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// RedisCache implements Cache on Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache on the given client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey(token string) string {
	return "sharelink:" + token
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, token string) (*Link, error) {
	raw, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached link: %w", err)
	}

	var l Link
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decode cached link: %w", err)
	}
	return &l, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, l *Link, ttl time.Duration) error {
	if l == nil {
		return errors.New("link cannot be nil")
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode link: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(l.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache link: %w", err)
	}
	return nil
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		return fmt.Errorf("evict link: %w", err)
	}
	return nil
}

// cacheTTL is how long l may be cached at now: never past its expiry.
// Zero means do not cache.
func cacheTTL(l *Link, now time.Time) time.Duration {
	if l.ExpiresAt == nil {
		return maxCacheTTL
	}
	left := l.ExpiresAt.Sub(now)
	if left < time.Second {
		return 0
	}
	if left > maxCacheTTL {
		return maxCacheTTL
	}
	return left.Truncate(time.Second)
}
