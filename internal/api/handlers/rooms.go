package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/auth"
	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/relay"
)

type createRoomRequest struct {
	Passphrase string `json:"passphrase"`
}

type joinRoomRequest struct {
	Name       string `json:"name" binding:"max=32"`
	Passphrase string `json:"passphrase"`
	// ActorID rejoins as an existing actor and must come with a ticket
	// previously issued to it. A new id is issued when empty.
	ActorID string `json:"actor_id"`
}

// CreateRoom registers a room, optionally protected by a passphrase.
func CreateRoom(reg relay.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		room, err := reg.Create(c.Request.Context(), req.Passphrase)
		if err != nil {
			logger.Named("rooms").Error("create room failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
			return
		}
		c.JSON(http.StatusCreated, room)
	}
}

// JoinRoom checks the passphrase and issues a relay ticket.
func JoinRoom(reg relay.Registry, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		roomID := c.Param("id")
		room, err := relay.Join(c.Request.Context(), reg, roomID, req.Passphrase)
		switch {
		case errors.Is(err, relay.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		case errors.Is(err, relay.ErrBadPassphrase):
			c.JSON(http.StatusForbidden, gin.H{"error": "wrong passphrase"})
			return
		case err != nil:
			logger.Named("rooms").Error("join room failed", zap.String("room", roomID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join room"})
			return
		}

		actor := strings.TrimSpace(req.ActorID)
		if actor == "" {
			actor = uuid.NewString()
		} else if _, err := uuid.Parse(actor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "actor_id must be a uuid"})
			return
		} else if !provesActor(c, cfg, room.ID, actor) {
			return
		}

		ticket, err := auth.IssueTicket(cfg.JWTSecret, room.ID, actor, req.Name, cfg.TicketTTL())
		if err != nil {
			logger.Named("rooms").Error("issue ticket failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue ticket"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"room_id":  room.ID,
			"actor_id": actor,
			"ticket":   ticket,
			"ws_path":  "/api/v1/rooms/" + room.ID + "/ws",
		})
	}
}

// provesActor checks that the caller holds a ticket, possibly expired, that
// was issued to actor in room.
func provesActor(c *gin.Context, cfg *config.Config, room, actor string) bool {
	tok := ticketFrom(c)
	if tok == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "rejoin requires the previous ticket"})
		return false
	}
	claims, err := auth.ParseIdentity(cfg.JWTSecret, tok)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ticket"})
		return false
	}
	if claims.Room != room || claims.Actor != actor {
		logger.Named("rooms").Warn("rejoin with foreign ticket",
			zap.String("room", room), zap.String("actor", actor), zap.String("ticket_actor", claims.Actor))
		c.JSON(http.StatusForbidden, gin.H{"error": "ticket does not belong to this actor"})
		return false
	}
	return true
}
