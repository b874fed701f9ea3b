// Package cache holds derived lookup lists (distinct careers, certification names).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lookup keys
const (
	KeyCareers            = "lookup:careers"
	KeyCertificationNames = "lookup:certifications"
)

// LookupCache stores string lists under a key. A miss is reported as found=false with a nil error.
type LookupCache interface {
	GetStrings(ctx context.Context, key string) (values []string, found bool, err error)
	SetStrings(ctx context.Context, key string, values []string) error
	Invalidate(ctx context.Context, keys ...string) error
}

// RedisCache keeps lookups in Redis as JSON arrays with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new RedisCache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient opens a client for addr; the connection is established lazily
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// GetStrings implements LookupCache
func (c *RedisCache) GetStrings(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return values, true, nil
}

// SetStrings implements LookupCache
func (c *RedisCache) SetStrings(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate implements LookupCache
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// NoopCache never stores anything; every lookup is a miss
type NoopCache struct{}

// GetStrings implements LookupCache
func (NoopCache) GetStrings(context.Context, string) ([]string, bool, error) { return nil, false, nil }

// SetStrings implements LookupCache
func (NoopCache) SetStrings(context.Context, string, []string) error { return nil }

// Invalidate implements LookupCache
func (NoopCache) Invalidate(context.Context, ...string) error { return nil }
