package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mqcontracts "localpm/contracts/mq"
	"localpm/internal/board"
	"localpm/internal/model"
	"localpm/internal/repository"
	"localpm/pkg/metrics"
	"localpm/pkg/pagination"
)

var ticketFields = map[string]fieldSpec{
	"ticketId":  {column: "ticket_id"},
	"title":     {column: "title"},
	"status":    {column: "status"},
	"priority":  {column: "priority"},
	"project":   {column: "project_id", numeric: true},
	"team":      {column: "team_id", numeric: true},
	"sortOrder": {column: "sort_order", numeric: true},
	"createdAt": {column: "created_at"},
	"updatedAt": {column: "updated_at"},
	"id":        {column: "id", numeric: true},
}

type TicketHandler struct {
	tickets   TicketStore
	projects  ProjectStore
	teams     TeamStore
	activity  ActivityStore
	publisher Publisher
	logger    *zap.Logger
}

func NewTicketHandler(
	tickets TicketStore,
	projects ProjectStore,
	teams TeamStore,
	activity ActivityStore,
	publisher Publisher,
	logger *zap.Logger,
) *TicketHandler {
	return &TicketHandler{
		tickets:   tickets,
		projects:  projects,
		teams:     teams,
		activity:  activity,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *TicketHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/reorder", h.Reorder)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/graph", h.Graph)
	g.GET("/:id/activity", h.Activity)
}

func (h *TicketHandler) List(c *gin.Context) {
	params, page, depth, err := parseListQuery(c, ticketFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tickets, total, err := h.tickets.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	if depth > 0 {
		if err := h.expand(c, tickets); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to expand relationships"})
			return
		}
	}

	c.JSON(http.StatusOK, pagination.New(tickets, total, params.Limit, page))
}

type ticketCreateReq struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Project     int64           `json:"project" binding:"required"`
	Team        *int64          `json:"team"`
	BlockedBy   []int64         `json:"blockedBy"`
	Labels      []model.Label   `json:"labels"`
	Subtasks    []model.Subtask `json:"subtasks"`
	DueDate     *string         `json:"dueDate"`
	SortOrder   int             `json:"sortOrder"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req ticketCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = model.StatusTodo
	}
	if !model.ValidTicketStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket status " + req.Status})
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityNone
	}
	if !model.ValidTicketPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket priority " + req.Priority})
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket := model.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.Project,
		TeamID:      req.Team,
		BlockedBy:   req.BlockedBy,
		Labels:      req.Labels,
		Subtasks:    req.Subtasks,
		DueDate:     dueDate,
		SortOrder:   req.SortOrder,
	}
	if ticket.BlockedBy == nil {
		ticket.BlockedBy = []int64{}
	}
	if ticket.Labels == nil {
		ticket.Labels = []model.Label{}
	}
	if ticket.Subtasks == nil {
		ticket.Subtasks = []model.Subtask{}
	}

	if err := h.tickets.Insert(c.Request.Context(), &ticket); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("project %d not found", req.Project)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}

	metrics.IncrementTicketCreated(ticket.Status)
	publishEvent(h.publisher, h.logger, mqcontracts.TicketCreatedKey, ticketEvent(&ticket, "created"))
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket, err := h.tickets.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		h.logger.Error("Failed to fetch ticket", zap.Int64("ticket_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ticket"})
		return
	}
	if c.DefaultQuery("depth", "1") != "0" {
		tickets := []model.Ticket{*ticket}
		if err := h.expand(c, tickets); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to expand relationships"})
			return
		}
		ticket = &tickets[0]
	}
	c.JSON(http.StatusOK, ticket)
}

// Update applies a partial patch. There is no version token: two rapid edits
// to the same ticket race and the last write wins.
func (h *TicketHandler) Update(c *gin.Context) {
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

	fields, err := ticketPatchFields(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}

	action := "updated"
	key := mqcontracts.TicketUpdatedKey
	if _, moved := fields["status"]; moved {
		action = "moved"
		key = mqcontracts.TicketMovedKey
	}
	publishEvent(h.publisher, h.logger, key, ticketEvent(ticket, action))
	c.JSON(http.StatusOK, ticket)
}

type reorderReq struct {
	Status string  `json:"status" binding:"required"`
	IDs    []int64 `json:"ids" binding:"required"`
}

// Reorder persists a whole column after a drag: every listed ticket gets the
// column's status and a sort_order equal to its position in the list.
func (h *TicketHandler) Reorder(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidTicketStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket status " + req.Status})
		return
	}

	if err := h.tickets.Reorder(c.Request.Context(), req.Status, req.IDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reorder tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "column reordered", "status": req.Status, "count": len(req.IDs)})
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.tickets.FindByID(c.Request.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ticket"})
		return
	}

	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ticket"})
		return
	}

	if ticket != nil {
		publishEvent(h.publisher, h.logger, mqcontracts.TicketDeletedKey, ticketEvent(ticket, "deleted"))
	}
	c.JSON(http.StatusOK, gin.H{"message": "ticket deleted", "id": id})
}

func (h *TicketHandler) Activity(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, err := h.activity.ListByEntity(c.Request.Context(), "ticket", id)
	if err != nil {
		h.logger.Error("Failed to list ticket activity", zap.Int64("ticket_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// expand replaces project/team IDs with the referenced objects.
func (h *TicketHandler) expand(c *gin.Context, tickets []model.Ticket) error {
	projectIDs := map[int64]struct{}{}
	teamIDs := map[int64]struct{}{}
	for i := range tickets {
		projectIDs[tickets[i].ProjectID] = struct{}{}
		if tickets[i].TeamID != nil {
			teamIDs[*tickets[i].TeamID] = struct{}{}
		}
	}

	projects, err := h.projects.FindByIDs(c.Request.Context(), keys(projectIDs))
	if err != nil {
		return err
	}
	teams, err := h.teams.FindByIDs(c.Request.Context(), keys(teamIDs))
	if err != nil {
		return err
	}

	for i := range tickets {
		if p, ok := projects[tickets[i].ProjectID]; ok {
			tickets[i].Project = p
		}
		if tickets[i].TeamID != nil {
			if t, ok := teams[*tickets[i].TeamID]; ok {
				tickets[i].Team = t
			}
		}
	}
	return nil
}

func keys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func ticketEvent(t *model.Ticket, action string) mqcontracts.TicketEventPayload {
	return mqcontracts.TicketEventPayload{
		TicketID:  t.ID,
		TicketKey: t.TicketID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Status:    t.Status,
		Action:    action,
	}
}

var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", *raw)
}

// ticketPatchFields converts an incoming PATCH body into repository columns.
// Unknown keys are ignored; ticket_id, project and the timestamps are not
// patchable.
func ticketPatchFields(body map[string]any) (map[string]any, error) {
	fields := map[string]any{}
	for key, value := range body {
		switch key {
		case "title", "description":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string", key)
			}
			fields[key] = s
		case "status":
			s, _ := value.(string)
			if !model.ValidTicketStatus(s) {
				return nil, fmt.Errorf("invalid ticket status %v", value)
			}
			fields["status"] = s
		case "priority":
			s, _ := value.(string)
			if !model.ValidTicketPriority(s) {
				return nil, fmt.Errorf("invalid ticket priority %v", value)
			}
			fields["priority"] = s
		case "team":
			if value == nil {
				fields["team_id"] = nil
				continue
			}
			n, ok := value.(float64)
			if !ok {
				return nil, fmt.Errorf("team must be a team id or null")
			}
			fields["team_id"] = int64(n)
		case "sortOrder":
			n, ok := value.(float64)
			if !ok {
				return nil, fmt.Errorf("sortOrder must be a number")
			}
			fields["sort_order"] = int(n)
		case "dueDate":
			if value == nil {
				fields["due_date"] = nil
				continue
			}
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("dueDate must be a string or null")
			}
			parsed, err := parseDueDate(&s)
			if err != nil {
				return nil, err
			}
			fields["due_date"] = parsed
		case "blockedBy":
			ids, err := toInt64Slice(value)
			if err != nil {
				return nil, fmt.Errorf("blockedBy must be an array of ticket ids")
			}
			fields["blocked_by"] = ids
		case "labels":
			var labels []model.Label
			if err := reencode(value, &labels); err != nil {
				return nil, fmt.Errorf("labels must be an array of {name, color}")
			}
			fields["labels"] = labels
		case "subtasks":
			var subtasks []model.Subtask
			if err := reencode(value, &subtasks); err != nil {
				return nil, fmt.Errorf("subtasks must be an array of {title, completed}")
			}
			fields["subtasks"] = subtasks
		}
	}
	return fields, nil
}

func toInt64Slice(value any) ([]int64, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	out := make([]int64, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("not a number")
		}
		out = append(out, int64(n))
	}
	return out, nil
}

// Graph reports the dependency neighborhood of one ticket: the tickets it is
// blocked by and the tickets that list it as a blocker.
func (h *TicketHandler) Graph(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket, err := h.tickets.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ticket"})
		return
	}

	all, _, err := h.tickets.List(c.Request.Context(), repository.ListParams{
		Filters: map[string]any{"project_id": ticket.ProjectID},
		Limit:   graphFetchLimit,
	})
	if err != nil {
		h.logger.Error("Failed to load project tickets for graph", zap.Int64("ticket_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build graph"})
		return
	}

	c.JSON(http.StatusOK, board.BuildGraph(*ticket, all))
}
