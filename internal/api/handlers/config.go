package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/game"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

// GetConfig returns the tuning a client process needs to match the relay.
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sub_step":          physics.SubStep,
			"max_frame_delta":   physics.MaxFrameDelta,
			"pickup_cooldown":   game.PickupCooldown,
			"points_per_basket": game.PointsPerBasket,
			"score_limit":       game.DefaultScoreLimit,
			"relay_send_buffer": cfg.RelaySendBuffer,
			"relay_read_limit":  cfg.RelayReadLimit,
			"ticket_ttl_sec":    int(cfg.TicketTTL().Seconds()),
		})
	}
}
