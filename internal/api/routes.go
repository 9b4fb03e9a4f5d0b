package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Peter211231231231232131/basketbgallgame/internal/api/handlers"
	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/middleware"
	"github.com/Peter211231231231232131/basketbgallgame/internal/relay"
	"github.com/Peter211231231231232131/basketbgallgame/internal/store"
	"github.com/Peter211231231231232131/basketbgallgame/internal/ws"
)

// Deps are the services the routes hand to their handlers.
type Deps struct {
	Config   *config.Config
	Registry relay.Registry
	Results  store.Results
	Hub      *ws.Hub
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.CORSMiddleware(d.Config))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Hub))
		v1.GET("/config", handlers.GetConfig(d.Config))

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", handlers.CreateRoom(d.Registry))
			rooms.POST("/:id/join", handlers.JoinRoom(d.Registry, d.Config))
			rooms.GET("/:id/ws", middleware.WebSocketCORSCheck(d.Config), handlers.RoomWebSocket(d.Hub, d.Config))
		}

		results := v1.Group("/results")
		{
			results.POST("", handlers.SubmitResult(d.Results, d.Config))
			results.GET("", handlers.ListResults(d.Results))
			results.GET("/:id", handlers.GetResult(d.Results))
		}
	}
}
