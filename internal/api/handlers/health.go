package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Peter211231231231232131/basketbgallgame/internal/ws"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck reports liveness and how many relay rooms and connections
// this instance holds.
func HealthCheck(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "hoops-relay",
			"version": version,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"relay":   hub.Stats(),
		})
	}
}
