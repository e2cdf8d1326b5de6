package handlers

import (
	"context"
	game_constants "dtrivia/constants/game"
	"dtrivia/services/coordinator"
	socketio_utils "dtrivia/services/socket_io/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// Upper bound for handling one event, lock wait included
const eventTimeout = 10 * time.Second

// HandleGameEvent returns the socket.io listener of one inbound game event.
// Rejected events are answered with an "error" emit to this client only.
func HandleGameEvent(coord *coordinator.Coordinator, client *socket.Socket, userID int64,
	eventType string, logger *zap.Logger) func(args ...interface{}) {

	return func(args ...interface{}) {
		args, ack := socketio_utils.SplitAck(args)

		ev, err := socketio_utils.ParseEvent(eventType, userID, args)
		if err == nil {
			moveRoom(client, ev.JoiningCode, roomBeforeEvent(eventType))
			ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
			err = coord.Handle(ctx, ev)
			cancel()
			moveRoom(client, ev.JoiningCode, roomAfterEvent(eventType, err))
		}

		if err != nil && !isRepeatJoin(eventType, err) {
			code, message := coordinator.Describe(err)
			logger.Info("[EVENT] rejected",
				zap.String("event", eventType),
				zap.String("joining_code", ev.JoiningCode),
				zap.Int64("user", userID),
				zap.String("code", code),
				zap.Error(err))
			reply := gin.H{"code": code, "error": message, "event": eventType, "joining_code": ev.JoiningCode}
			client.Emit(game_constants.EVENT_ERROR, reply)
			if ack != nil {
				ack([]interface{}{reply}, nil)
			}
			return
		}

		logger.Debug("[EVENT] handled",
			zap.String("event", eventType),
			zap.String("joining_code", ev.JoiningCode),
			zap.Int64("user", userID),
			zap.Bool("already_member", err != nil))
		if ack != nil {
			ack([]interface{}{gin.H{"ok": true}}, nil)
		}
	}
}
