package redis

import (
	"context"
	game_constants "dtrivia/constants/game"
	redis_models "dtrivia/models/redis"
	redis_utils "dtrivia/services/redis/utils"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient is the game session store. Every operation takes the caller's
// context so a slow Redis never outlives the event that triggered it.
type RedisClient struct {
	client     *redis.Client
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewRedisClient creates a new Redis client instance. Addr is either a plain
// "host:port" or a redis:// URL for remote deployments.
func NewRedisClient(addr string, db int, logger *zap.Logger) (*RedisClient, error) {
	var client *redis.Client
	if u, err := url.Parse(addr); err == nil && (u.Scheme == "redis" || u.Scheme == "rediss") {
		logger.Info("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return NewRedisClientFromClient(client, logger), nil
}

// NewRedisClientFromClient wraps an existing go-redis client
func NewRedisClientFromClient(client *redis.Client, logger *zap.Logger) *RedisClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisClient{
		client:     client,
		sessionTTL: game_constants.SESSION_TTL,
		logger:     logger.Named("redis"),
	}
}

// SetSessionTTL overrides the expiry applied on every save
func (rc *RedisClient) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		rc.sessionTTL = ttl
	}
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Exists reports whether a session is stored under the joining code
// Key format: "games:{joining_code}"
func (rc *RedisClient) Exists(ctx context.Context, joiningCode string) (bool, error) {
	key := redis_utils.FormatGameSessionKey(joiningCode)
	n, err := rc.client.Exists(ctx, key).Result()
	if err != nil {
		return false, unavailable("error checking game session", err)
	}
	return n == 1, nil
}

// GetGameSession retrieves a game session from Redis
// Key format: "games:{joining_code}"
// Returns: ErrSessionNotFound if the key is absent or expired
func (rc *RedisClient) GetGameSession(ctx context.Context, joiningCode string) (*redis_models.GameSession, error) {
	key := redis_utils.FormatGameSessionKey(joiningCode)
	data, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if isNil(err) {
			return nil, fmt.Errorf("game %s: %w", joiningCode, ErrSessionNotFound)
		}
		return nil, unavailable("error getting game session", err)
	}

	var session redis_models.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("game %s: %w: %v", joiningCode, ErrCorruptSession, err)
	}
	return &session, nil
}

// SaveGameSession stores a game session in Redis
// Key format: "games:{joining_code}"
// TTL: reset to the session TTL (1 hour by default) on every save
func (rc *RedisClient) SaveGameSession(ctx context.Context, session *redis_models.GameSession) error {
	key := redis_utils.FormatGameSessionKey(session.JoiningCode)
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling game session: %w", err)
	}
	if err := rc.client.Set(ctx, key, data, rc.sessionTTL).Err(); err != nil {
		return unavailable("error saving game session", err)
	}
	return nil
}

// CreateGameSession stores a new session only if the joining code is free.
// It returns false when another session already uses the code.
func (rc *RedisClient) CreateGameSession(ctx context.Context, session *redis_models.GameSession) (bool, error) {
	key := redis_utils.FormatGameSessionKey(session.JoiningCode)
	data, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("error marshaling game session: %w", err)
	}
	ok, err := rc.client.SetNX(ctx, key, data, rc.sessionTTL).Result()
	if err != nil {
		return false, unavailable("error creating game session", err)
	}
	return ok, nil
}

// DeleteGameSession removes a game session from Redis
// Returns: ErrSessionNotFound if there was nothing to delete
func (rc *RedisClient) DeleteGameSession(ctx context.Context, joiningCode string) error {
	key := redis_utils.FormatGameSessionKey(joiningCode)
	n, err := rc.client.Del(ctx, key).Result()
	if err != nil {
		return unavailable("error deleting game session", err)
	}
	if n == 0 {
		return fmt.Errorf("game %s: %w", joiningCode, ErrSessionNotFound)
	}
	return nil
}

// ListActiveSessions returns the joining codes of every stored session,
// sorted. It walks the keyspace with SCAN so it never blocks Redis.
func (rc *RedisClient) ListActiveSessions(ctx context.Context) ([]string, error) {
	var codes []string
	iter := rc.client.Scan(ctx, 0, redis_utils.GameSessionKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if code, ok := redis_utils.ParseGameSessionKey(iter.Val()); ok && !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable("error listing game sessions", err)
	}
	slices.Sort(codes)
	return codes, nil
}

// redactAddr hides credentials of a redis:// URL before logging it
func redactAddr(addr string) string {
	u, err := url.Parse(addr)
	if err != nil || u.User == nil {
		return addr
	}
	return u.Redacted()
}
