package config

import (
	"context"
	"dtrivia/services/redis"

	"go.uber.org/zap"
)

// Connect to Redis
func Connect_redis(ctx context.Context, cfg *Config, logger *zap.Logger) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(ctx, cfg.RedisURL, cfg.RedisDB, logger)
	if err != nil {
		logger.Error("[REDIS] Error connecting to Redis", zap.Error(err))
		return nil, err
	}
	redisClient.SetSessionTTL(cfg.SessionTTL)
	logger.Info("[REDIS] Redis connection established")
	return redisClient, nil
}
