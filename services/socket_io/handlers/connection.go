package handlers

import (
	socketio_types "dtrivia/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// Function to handle socket.io client disconnections. Lobby membership is
// kept, the player rejoins the room with "enter-game" after reconnecting.
func HandleDisconnecting(userID int64, client *socket.Socket, sio *socketio_types.SocketServer,
	logger *zap.Logger) func(args ...interface{}) {

	return func(args ...interface{}) {
		logger.Info("[DISCONNECT] user disconnecting",
			zap.Int64("user", userID),
			zap.Int("rooms", client.Rooms().Len()))

		sio.RemoveConnection(userID, client)
	}
}
