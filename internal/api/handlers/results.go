package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/models"
	"github.com/Peter211231231231232131/basketbgallgame/internal/store"
)

// SubmitResult records a finished match for the ticket's room.
func SubmitResult(results store.Results, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireTicket(c, cfg)
		if !ok {
			return
		}

		var r models.MatchResult
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if r.RoomID == "" {
			r.RoomID = claims.Room
		}
		if r.RoomID != claims.Room {
			c.JSON(http.StatusForbidden, gin.H{"error": "ticket is for another room"})
			return
		}
		if err := r.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := results.Save(c.Request.Context(), &r); err != nil {
			logger.Named("results").Error("save failed", zap.String("room", r.RoomID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save result"})
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func ListResults(results store.Results) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := results.Recent(c.Request.Context(), queryInt(c, "limit", 20))
		if err != nil {
			logger.Named("results").Error("list failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": list})
	}
}

func GetResult(results store.Results) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}
		r, err := results.Get(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}
		if err != nil {
			logger.Named("results").Error("get failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load result"})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
