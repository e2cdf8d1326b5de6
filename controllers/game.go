package controllers

import (
	"context"
	"dtrivia/middleware"
	"dtrivia/models"
	redis_models "dtrivia/models/redis"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameLobby is the part of the coordinator served over HTTP
type GameLobby interface {
	Create(ctx context.Context, host int64, req models.GameCreation) (*redis_models.GameSession, error)
	Get(ctx context.Context, joiningCode string) (models.GameSummary, error)
	List(ctx context.Context) ([]models.GameSummary, error)
}

// @Summary Creates a new game lobby
// @Description The caller becomes the host and first player. Players join through the socket.io "join" event with the returned joining code.
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game body models.GameCreation true "Lobby settings"
// @Success 201 {object} models.GameSummary
// @Failure 400 {object} object{code=string,error=string}
// @Failure 401 {object} object{error=string}
// @Failure 503 {object} object{code=string,error=string}
// @Router /games [post]
// @Security ApiKeyAuth
func CreateGame(lobby GameLobby) gin.HandlerFunc {
	return func(c *gin.Context) {
		host, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req models.GameCreation
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "invalid_settings", "error": err.Error()})
			return
		}

		s, err := lobby.Create(c.Request.Context(), host, req)
		if err != nil {
			_ = c.Error(err)
			return
		}

		summary, err := lobby.Get(c.Request.Context(), s.JoiningCode)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

// @Summary Lists the live game lobbies
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} models.GameSummary
// @Failure 401 {object} object{error=string}
// @Failure 503 {object} object{code=string,error=string}
// @Router /games [get]
// @Security ApiKeyAuth
func ListGames(lobby GameLobby) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := lobby.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

// @Summary Gives info of a game lobby
// @Description Given a joining code, returns the lobby roster and its state
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param joining_code path string true "Joining code of the game"
// @Success 200 {object} models.GameSummary
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{code=string,error=string}
// @Router /games/{joining_code} [get]
// @Security ApiKeyAuth
func GetGame(lobby GameLobby) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := lobby.Get(c.Request.Context(), c.Param("joining_code"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
