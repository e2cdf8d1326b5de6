package routes

import (
	"dtrivia/controllers"
	"dtrivia/middleware"
	utils "dtrivia/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, lobby controllers.GameLobby, verifier *middleware.Verifier, logger *zap.Logger) {
	// utils global
	router.Use(utils.ErrorHandler(logger))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	games := api.Group("/games")
	games.Use(middleware.JWTAuth(verifier))
	{
		games.POST("", controllers.CreateGame(lobby))

		games.GET("", controllers.ListGames(lobby))

		games.GET("/:joining_code", controllers.GetGame(lobby))
	}
}
