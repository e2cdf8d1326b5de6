package socket_io

import (
	game_constants "dtrivia/constants/game"
	"dtrivia/middleware"
	"dtrivia/services/coordinator"
	"dtrivia/services/socket_io/handlers"
	socketio_types "dtrivia/services/socket_io/types"
	socketio_utils "dtrivia/services/socket_io/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

type MySocketServer socketio_types.SocketServer

// Inbound game events, each one is handed to the coordinator
var gameEvents = []string{
	game_constants.EVENT_JOIN,
	game_constants.EVENT_LEAVE,
	game_constants.EVENT_START,
	game_constants.EVENT_CANCEL,
	game_constants.EVENT_NEXT_QUESTION,
	game_constants.EVENT_ANSWER,
	game_constants.EVENT_REQUEST_ANSWER,
	game_constants.EVENT_REQUEST_SCORES,
	game_constants.EVENT_ENTER_GAME,
}

func NewSocketServer() *MySocketServer {
	return (*MySocketServer)(socketio_types.NewSocketServer())
}

// Start registers the connection handlers and mounts the socket.io endpoint
// on the router
func (sio *MySocketServer) Start(router *gin.Engine, coord *coordinator.Coordinator,
	verifier *middleware.Verifier, logger *zap.Logger, debug bool) {

	log.DEBUG = debug
	logger = logger.Named("socket")

	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, userID := socketio_utils.VerifyUserConnection(client, verifier, logger)
		if !success {
			client.Disconnect(true)
			return
		}

		if prev, ok := server.GetConnection(userID); ok && prev != client {
			// the older socket keeps its rooms until it disconnects
			logger.Debug("[CONNECT] user opened another connection",
				zap.Int64("user", userID), zap.String("previous", string(prev.Id())))
		}
		server.AddConnection(userID, client)
		logger.Info("[CONNECT] user connected",
			zap.Int64("user", userID),
			zap.String("socket", string(client.Id())),
			zap.Int("connections", server.ConnectionCount()))

		for _, event := range gameEvents {
			client.On(event, handlers.HandleGameEvent(coord, client, userID, event, logger))
		}

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(userID, client, server, logger))
	})

	handler := gin.WrapH(sio.Sio_server.ServeHandler(c))
	router.POST("/socket.io/*f", handler)
	router.GET("/socket.io/*f", handler)

	logger.Info("Socket server started")
}

// Close disconnects every client
func (sio *MySocketServer) Close() {
	sio.Sio_server.Close(nil)
}
