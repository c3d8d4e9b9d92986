package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "github.com/cavidescun/314q34wefasd/internal/platform/redis"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

// LookupCache stores resolved lookups. Find returns sentinel.ErrNotFound on
// a miss or an expired entry.
type LookupCache interface {
	Find(ctx context.Context, key string, dest any) error
	Save(ctx context.Context, key string, value any) error
}

func cacheKey(lookup string, parts ...string) string {
	return platformredis.Key(append([]string{"catalog", lookup}, parts...)...)
}

// RedisCache keeps lookups in Redis as JSON with a fixed TTL.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *Metrics
}

func NewRedisCache(client *redis.Client, ttl time.Duration, metrics *Metrics) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, metrics: metrics}
}

func (c *RedisCache) Find(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.IncCache(false)
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("catalog cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("catalog cache decode: %w", err)
	}
	c.metrics.IncCache(true)
	return nil
}

func (c *RedisCache) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

type cachedLookup struct {
	raw      []byte
	storedAt time.Time
}

// InMemoryCache is the process-local cache used when Redis is not configured.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedLookup
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cachedLookup),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) Find(_ context.Context, key string, dest any) error {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(cached.storedAt) >= c.ttl {
		return sentinel.ErrNotFound
	}
	return json.Unmarshal(cached.raw, dest)
}

func (c *InMemoryCache) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedLookup{raw: raw, storedAt: c.now()}
	return nil
}
