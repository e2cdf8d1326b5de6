package redis

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrSessionNotFound means the session expired or never existed
	ErrSessionNotFound = errors.New("game session not found")
	// ErrUnavailable wraps every connectivity failure. It is retryable and
	// never means the session is gone.
	ErrUnavailable = errors.New("redis unavailable")
	// ErrCorruptSession means the stored value could not be decoded
	ErrCorruptSession = errors.New("corrupt game session")
	// ErrLockTimeout means the per-code lock could not be taken before the
	// context expired
	ErrLockTimeout = errors.New("timed out waiting for game lock")
)

// IsRetryable reports whether err comes from the store being unreachable
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrLockTimeout)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
