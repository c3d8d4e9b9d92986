// Package lock provides the per-national-ID intake lock. A held lock makes a
// concurrent intake for the same student fail fast instead of creating a
// duplicate homologation.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	platformredis "github.com/cavidescun/314q34wefasd/internal/platform/redis"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

const (
	DefaultTTL     = 2 * time.Minute
	releaseTimeout = 2 * time.Second
)

// Release frees a lock. It is safe to call more than once.
type Release func()

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL expired cannot free a lock someone else acquired since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX lock with a TTL so a crashed holder expires.
type RedisLocker struct {
	client redisClient
	ttl    time.Duration
}

type redisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

func NewRedisLocker(client redisClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// Acquire returns sentinel.ErrConflict when the lock is already held.
func (l *RedisLocker) Acquire(ctx context.Context, nationalID string) (Release, error) {
	key := platformredis.Key("lock", "intake", nationalID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire intake lock: %w", err)
	}
	if !ok {
		return nil, sentinel.ErrConflict
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			// on failure the TTL frees the key
			_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		})
	}, nil
}

// MemoryLocker is the single-process variant used without Redis.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryLocker{held: make(map[string]time.Time), ttl: ttl, clock: time.Now}
}

func (l *MemoryLocker) Acquire(_ context.Context, nationalID string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiresAt, ok := l.held[nationalID]; ok && now.Before(expiresAt) {
		return nil, sentinel.ErrConflict
	}
	expiresAt := now.Add(l.ttl)
	l.held[nationalID] = expiresAt

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.held[nationalID] == expiresAt {
				delete(l.held, nationalID)
			}
		})
	}, nil
}
