// Package redis keeps dispatch passes of several replicas from overlapping.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPassLockKey = "dispatch:pass-lock"

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by another replica is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PassLock is a SET NX PX lease. The ttl must exceed the longest pass; a
// holder that outlives it loses the lease silently.
type PassLock struct {
	rdb goredis.UniversalClient
	key string
	ttl time.Duration

	mu    sync.Mutex
	token string
}

var _ ports.PassLock = (*PassLock)(nil)

func NewPassLock(rdb goredis.UniversalClient, key string, ttl time.Duration) *PassLock {
	if key == "" {
		key = DefaultPassLockKey
	}
	return &PassLock{rdb: rdb, key: key, ttl: ttl}
}

func (l *PassLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if !ok {
		return false, nil
	}

	l.token = token
	return true, nil
}

// Release is a no-op when the lock is not held by this instance.
func (l *PassLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return nil
	}

	token := l.token
	l.token = ""
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}

	return nil
}
