package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
)

// CORSMiddleware returns a CORS middleware configured for the environment.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization", "Accept",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if cfg.IsProduction() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins()
		corsConfig.AllowCredentials = true
		if len(corsConfig.AllowOrigins) == 0 {
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		// any localhost port in development
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return isLocalOrigin(origin) || contains(cfg.AllowedOrigins(), origin)
		}
	}
	logger.Named("cors").Info("cors configured",
		zap.String("env", cfg.Environment), zap.Strings("origins", cfg.AllowedOrigins()))

	return cors.New(corsConfig)
}

// WebSocketCORSCheck rejects WebSocket upgrades from origins the relay does
// not serve.
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}
		if !OriginAllowed(cfg, c.GetHeader("Origin")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "WebSocket origin not allowed"})
			return
		}
		c.Next()
	}
}

// OriginAllowed applies the relay origin policy. Native clients send no
// Origin header and are allowed; they still need a ticket.
func OriginAllowed(cfg *config.Config, origin string) bool {
	if origin == "" {
		return true
	}
	if !cfg.IsProduction() && isLocalOrigin(origin) {
		return true
	}
	return contains(cfg.AllowedOrigins(), origin)
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
