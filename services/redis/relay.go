package redis

import (
	"context"
	redis_models "dtrivia/models/redis"
	redis_utils "dtrivia/services/redis/utils"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// PublishRoomMessage relays a room broadcast to the other instances
func (rc *RedisClient) PublishRoomMessage(ctx context.Context, msg *redis_models.RoomMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling room message: %w", err)
	}
	if err := rc.client.Publish(ctx, redis_utils.RoomRelayChannel, data).Err(); err != nil {
		return unavailable("error publishing room message", err)
	}
	return nil
}

// SubscribeRoomMessages calls handle for every relayed room broadcast until
// ctx is done. The subscription is confirmed before ready is closed.
func (rc *RedisClient) SubscribeRoomMessages(ctx context.Context, ready chan<- struct{}, handle func(redis_models.RoomMessage)) error {
	pubsub := rc.client.Subscribe(ctx, redis_utils.RoomRelayChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return unavailable("error subscribing to room relay", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg redis_models.RoomMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				rc.logger.Warn("[RELAY] dropping malformed room message", zap.Error(err))
				continue
			}
			handle(msg)
		}
	}
}
