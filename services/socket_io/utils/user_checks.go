package socketio_utils

import (
	"dtrivia/middleware"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// VerifyUserConnection authenticates a socket.io client from the JWT sent in
// the handshake auth data ("authorization": "Bearer <token>").
func VerifyUserConnection(client *socket.Socket, verifier *middleware.Verifier, logger *zap.Logger) (bool, int64) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		logger.Info("[AUTH] no auth data provided in handshake", zap.String("socket", string(client.Id())))
		client.Emit("error", gin.H{"code": "unauthorized", "error": "Authentication failed: missing auth data"})
		return false, 0
	}

	header, exists := authData["authorization"].(string)
	if !exists {
		logger.Info("[AUTH] no authorization token provided in handshake", zap.String("socket", string(client.Id())))
		client.Emit("error", gin.H{"code": "unauthorized", "error": "Authentication failed: missing authorization token"})
		return false, 0
	}

	userID, err := verifier.ParseBearer(header)
	if err != nil {
		logger.Info("[AUTH] invalid handshake token", zap.String("socket", string(client.Id())), zap.Error(err))
		client.Emit("error", gin.H{
			"code":  "unauthorized",
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field and with the 'Bearer ' prefix.",
		})
		return false, 0
	}
	return true, userID
}
