package broadcast

import (
	"context"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/redis"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Relay emits locally and republishes every broadcast over Redis pub/sub so
// the clients connected to other instances receive it too.
type Relay struct {
	local  Broadcaster
	rc     *redis.RedisClient
	origin string
	logger *zap.Logger
}

func NewRelay(local Broadcaster, rc *redis.RedisClient, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := uuid.NewString()
	return &Relay{
		local:  local,
		rc:     rc,
		origin: origin,
		logger: logger.Named("relay").With(zap.String("origin", origin)),
	}
}

func (r *Relay) Broadcast(ctx context.Context, room string, event string, payload interface{}) error {
	if err := r.local.Broadcast(ctx, room, event, payload); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling %s payload: %w", event, err)
	}
	return r.rc.PublishRoomMessage(ctx, &redis_models.RoomMessage{
		Origin:  r.origin,
		Room:    room,
		Event:   event,
		Payload: data,
	})
}

// Run delivers the broadcasts of other instances to the local rooms until
// ctx is done. ready is closed once the subscription is active.
func (r *Relay) Run(ctx context.Context, ready chan<- struct{}) error {
	return r.rc.SubscribeRoomMessages(ctx, ready, func(msg redis_models.RoomMessage) {
		if msg.Origin == r.origin {
			return
		}
		if err := r.local.Broadcast(ctx, msg.Room, msg.Event, msg.Payload); err != nil {
			r.logger.Warn("[RELAY] error emitting relayed message",
				zap.String("room", msg.Room), zap.String("event", msg.Event), zap.Error(err))
		}
	})
}
