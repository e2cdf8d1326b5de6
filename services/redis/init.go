package redis

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// InitRedis creates the client and checks the connection. Unlike a test
// fixture it never flushes the database, sessions survive restarts.
func InitRedis(ctx context.Context, addr string, db int, logger *zap.Logger) (*RedisClient, error) {
	rc, err := NewRedisClient(addr, db, logger)
	if err != nil {
		return nil, err
	}

	if err := rc.Ping(ctx); err != nil {
		_ = rc.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rc.logger.Info("Successfully connected to Redis", zap.String("addr", redactAddr(addr)))
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}
