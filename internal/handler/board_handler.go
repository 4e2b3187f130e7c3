package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"localpm/internal/board"
	"localpm/internal/repository"
	"localpm/pkg/metrics"
)

const boardCacheTTL = 30 * time.Second

// BoardHandler serves the grouped board view. Responses are cached in Redis
// for a short window since the board is refetched on every drag.
type BoardHandler struct {
	tickets TicketStore
	cache   *redis.Client
	logger  *zap.Logger
}

func NewBoardHandler(tickets TicketStore, cache *redis.Client, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{tickets: tickets, cache: cache, logger: logger}
}

func (h *BoardHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.Get)
}

func (h *BoardHandler) Get(c *gin.Context) {
	filters := map[string]any{}
	cacheKey := "board"
	if raw := c.Query("projectId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
			return
		}
		filters["project_id"] = id
		cacheKey += ":p" + raw
	}
	if raw := c.Query("teamId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teamId"})
			return
		}
		filters["team_id"] = id
		cacheKey += ":t" + raw
	}

	if h.cache != nil {
		cached, err := h.cache.Get(c.Request.Context(), cacheKey).Bytes()
		if err == nil {
			metrics.IncrementBoardRequest("hit")
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
		if err != redis.Nil {
			h.logger.Warn("Board cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		metrics.IncrementBoardRequest("miss")
	} else {
		metrics.IncrementBoardRequest("bypass")
	}

	tickets, _, err := h.tickets.List(c.Request.Context(), repository.ListParams{
		Filters: filters,
		Limit:   graphFetchLimit,
	})
	if err != nil {
		h.logger.Error("Failed to load board tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load board"})
		return
	}

	b := board.Build(tickets)

	if h.cache != nil {
		if raw, err := json.Marshal(b); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, raw, boardCacheTTL).Err(); err != nil {
				h.logger.Warn("Board cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, b)
}
