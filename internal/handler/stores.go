package handler

import (
	"context"

	"localpm/internal/model"
	"localpm/internal/repository"
)

// Store interfaces cover what the handlers need from the repository layer.
// The pgx repositories satisfy them; tests substitute in-memory fakes.

type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Project, error)
	List(ctx context.Context, params repository.ListParams) ([]model.Project, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
}

type TeamStore interface {
	Insert(ctx context.Context, t *model.Team) error
	FindByID(ctx context.Context, id int64) (*model.Team, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Team, error)
	List(ctx context.Context, params repository.ListParams) ([]model.Team, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*model.Team, error)
	Delete(ctx context.Context, id int64) error
}

type TicketStore interface {
	Insert(ctx context.Context, t *model.Ticket) error
	FindByID(ctx context.Context, id int64) (*model.Ticket, error)
	List(ctx context.Context, params repository.ListParams) ([]model.Ticket, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*model.Ticket, error)
	Reorder(ctx context.Context, status string, ids []int64) error
	Delete(ctx context.Context, id int64) error
}

type ActivityStore interface {
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]model.ActivityEntry, error)
}

// Publisher is the event sink for collection mutations. Publishes are
// fire-and-forget: a failure is logged and never fails the request.
type Publisher interface {
	Publish(routingKey string, payload any) error
}
