package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Peter211231231231232131/basketbgallgame/internal/auth"
	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
)

// ticketFrom reads a ticket from the bearer header or the ticket query
// parameter, in that order. Browsers cannot set headers on a WebSocket.
func ticketFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("ticket")
}

func requireTicket(c *gin.Context, cfg *config.Config) (*auth.Claims, bool) {
	tok := ticketFrom(c)
	if tok == "" {
		c.JSON(401, gin.H{"error": "ticket required"})
		return nil, false
	}
	claims, err := auth.ParseTicket(cfg.JWTSecret, tok)
	if err != nil {
		c.JSON(401, gin.H{"error": "invalid ticket"})
		return nil, false
	}
	return claims, true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
