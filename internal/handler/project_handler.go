package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	mqcontracts "localpm/contracts/mq"
	"localpm/internal/model"
	"localpm/internal/repository"
	"localpm/pkg/pagination"
)

var projectFields = map[string]fieldSpec{
	"name":      {column: "name"},
	"prefix":    {column: "prefix"},
	"status":    {column: "status"},
	"createdAt": {column: "created_at"},
	"updatedAt": {column: "updated_at"},
	"id":        {column: "id", numeric: true},
}

type ProjectHandler struct {
	projects  ProjectStore
	publisher Publisher
	logger    *zap.Logger
}

func NewProjectHandler(projects ProjectStore, publisher Publisher, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, publisher: publisher, logger: logger}
}

func (h *ProjectHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ProjectHandler) List(c *gin.Context) {
	params, page, _, err := parseListQuery(c, projectFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projects, total, err := h.projects.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, pagination.New(projects, total, params.Limit, page))
}

type projectCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Prefix      string `json:"prefix" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Status      string `json:"status"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.PrefixPattern.MatchString(req.Prefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prefix must be 2-6 uppercase letters"})
		return
	}
	if req.Status == "" {
		req.Status = model.ProjectActive
	}
	if !model.ValidProjectStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status " + req.Status})
		return
	}
	if req.Icon == "" {
		req.Icon = "folder"
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}

	project := model.Project{
		Name:        req.Name,
		Prefix:      req.Prefix,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Status:      req.Status,
	}
	if err := h.projects.Insert(c.Request.Context(), &project); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prefix " + req.Prefix + " already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("Failed to fetch project", zap.Int64("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
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

	// prefix (and the counter) are immutable after creation
	fields := map[string]any{}
	for key, value := range body {
		switch key {
		case "name", "description", "icon", "color":
			s, ok := value.(string)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a string"})
				return
			}
			fields[key] = s
		case "status":
			s, _ := value.(string)
			if !model.ValidProjectStatus(s) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status"})
				return
			}
			fields[key] = s
		}
	}

	project, err := h.projects.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete removes the project only. Tickets are not cascaded here; automation
// clients orchestrate per-ticket deletion first when they want a cascade.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	if project != nil {
		h.publish(mqcontracts.ProjectDeletedKey, mqcontracts.ProjectEventPayload{
			ProjectID: project.ID,
			Name:      project.Name,
			Prefix:    project.Prefix,
			Action:    "deleted",
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted", "id": id})
}

func (h *ProjectHandler) publish(key string, payload any) {
	publishEvent(h.publisher, h.logger, key, payload)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// publishEvent sends a mutation event without affecting the request outcome.
func publishEvent(p Publisher, logger *zap.Logger, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(key, payload); err != nil {
		logger.Error("Failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}
