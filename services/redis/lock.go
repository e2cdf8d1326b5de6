package redis

import (
	"context"
	game_constants "dtrivia/constants/game"
	redis_utils "dtrivia/services/redis/utils"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLock serializes events of one joining code across every instance
// sharing the Redis database.
// Key format: "games:{joining_code}:lock"
type SessionLock struct {
	rc    *RedisClient
	ttl   time.Duration
	retry time.Duration
}

// NewSessionLock builds the lock. A holder that crashes releases it after ttl.
func (rc *RedisClient) NewSessionLock(ttl time.Duration) *SessionLock {
	if ttl <= 0 {
		ttl = game_constants.DEFAULT_LOCK_TTL
	}
	return &SessionLock{
		rc:    rc,
		ttl:   ttl,
		retry: game_constants.LOCK_RETRY_INTERVAL,
	}
}

// Lock blocks until the lock of the joining code is taken or ctx is done
func (l *SessionLock) Lock(ctx context.Context, joiningCode string) (func(), error) {
	key := redis_utils.FormatGameSessionLockKey(joiningCode)
	token := uuid.NewString()

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("game %s: %w: %v", joiningCode, ErrLockTimeout, ctx.Err())
		case <-timer.C:
		}

		ok, err := l.rc.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, unavailable("error taking game lock", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		timer.Reset(l.retry)
	}
}

func (l *SessionLock) release(key, token string) {
	// The caller's context may already be cancelled, the lock must still go
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rc.client, []string{key}, token).Err(); err != nil {
		l.rc.logger.Warn("[LOCK] error releasing game lock", zap.String("key", key), zap.Error(err))
	}
}
