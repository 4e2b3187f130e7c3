package mqhandler

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	mqcontracts "localpm/contracts/mq"
	"localpm/internal/model"
)

type ActivityStore interface {
	Insert(ctx context.Context, entry *model.ActivityEntry) error
}

// ActivityHandler turns ticket and project events into activity log rows.
type ActivityHandler struct {
	activity ActivityStore
	logger   *zap.Logger
}

func NewActivityHandler(activity ActivityStore, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, logger: logger}
}

// Handle dispatches on the routing key prefix. Unknown keys are logged and
// acked so they do not requeue forever.
func (h *ActivityHandler) Handle(ctx context.Context, routingKey string, raw json.RawMessage) error {
	switch {
	case strings.HasPrefix(routingKey, "ticket."):
		return h.handleTicket(ctx, raw)
	case strings.HasPrefix(routingKey, "project."):
		return h.handleProject(ctx, raw)
	default:
		h.logger.Warn("Unknown routing key, dropping message", zap.String("routing_key", routingKey))
		return nil
	}
}

func (h *ActivityHandler) handleTicket(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TicketEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal ticket event", zap.Error(err))
		return err
	}

	entry := &model.ActivityEntry{
		EntityType: "ticket",
		EntityID:   p.TicketID,
		Action:     p.Action,
		Detail: map[string]any{
			"ticketId": p.TicketKey,
			"project":  p.ProjectID,
			"title":    p.Title,
			"status":   p.Status,
		},
	}
	if err := h.activity.Insert(ctx, entry); err != nil {
		h.logger.Error("Failed to insert ticket activity",
			zap.Int64("ticket_id", p.TicketID),
			zap.String("action", p.Action),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Ticket activity recorded",
		zap.Int64("ticket_id", p.TicketID),
		zap.String("ticket_key", p.TicketKey),
		zap.String("action", p.Action),
	)
	return nil
}

func (h *ActivityHandler) handleProject(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.ProjectEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal project event", zap.Error(err))
		return err
	}

	entry := &model.ActivityEntry{
		EntityType: "project",
		EntityID:   p.ProjectID,
		Action:     p.Action,
		Detail: map[string]any{
			"name":   p.Name,
			"prefix": p.Prefix,
		},
	}
	if err := h.activity.Insert(ctx, entry); err != nil {
		h.logger.Error("Failed to insert project activity",
			zap.Int64("project_id", p.ProjectID),
			zap.String("action", p.Action),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Project activity recorded",
		zap.Int64("project_id", p.ProjectID),
		zap.String("action", p.Action),
	)
	return nil
}
