package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/ws"
)

// RoomWebSocket upgrades a ticket holder into the room's relay.
func RoomWebSocket(hub *ws.Hub, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireTicket(c, cfg)
		if !ok {
			return
		}
		if claims.Room != c.Param("id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "ticket is for another room"})
			return
		}
		if err := hub.Serve(c.Writer, c.Request, claims.Room, claims.Actor, claims.Name); err != nil {
			// the upgrader has already answered the request
			logger.Named("ws").Warn("upgrade failed", zap.String("room", claims.Room), zap.Error(err))
		}
	}
}
