package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"localpm/internal/model"
	"localpm/internal/repository"
	"localpm/pkg/pagination"
)

var teamFields = map[string]fieldSpec{
	"name":      {column: "name"},
	"createdAt": {column: "created_at"},
	"updatedAt": {column: "updated_at"},
	"id":        {column: "id", numeric: true},
}

type TeamHandler struct {
	teams  TeamStore
	logger *zap.Logger
}

func NewTeamHandler(teams TeamStore, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{teams: teams, logger: logger}
}

func (h *TeamHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *TeamHandler) List(c *gin.Context) {
	params, page, _, err := parseListQuery(c, teamFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teams, total, err := h.teams.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list teams", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list teams"})
		return
	}
	c.JSON(http.StatusOK, pagination.New(teams, total, params.Limit, page))
}

type teamCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req teamCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}
	team := model.Team{Name: req.Name, Description: req.Description, Color: req.Color}
	if err := h.teams.Insert(c.Request.Context(), &team); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create team"})
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	team, err := h.teams.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		h.logger.Error("Failed to fetch team", zap.Int64("team_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch team"})
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	for key, value := range body {
		switch key {
		case "name", "description", "color":
			s, ok := value.(string)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a string"})
				return
			}
			fields[key] = s
		}
	}

	team, err := h.teams.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update team"})
		return
	}
	c.JSON(http.StatusOK, team)
}

// Delete never cascades. Tickets assigned to the team end up unassigned.
func (h *TeamHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.teams.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete team"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "team deleted", "id": id})
}
