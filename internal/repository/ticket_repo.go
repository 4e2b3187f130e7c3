package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"localpm/internal/model"
)

const ticketColumns = `id, ticket_id, title, description, status, priority, project_id, team_id,
        blocked_by, labels, subtasks, due_date, sort_order, created_at, updated_at`

type TicketRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTicketRepository(db *pgxpool.Pool, logger *zap.Logger) *TicketRepository {
	return &TicketRepository{db: db, logger: logger}
}

func scanTicket(row pgx.Row, t *model.Ticket) error {
	err := row.Scan(
		&t.ID,
		&t.TicketID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.ProjectID,
		&t.TeamID,
		&t.BlockedBy,
		&t.Labels,
		&t.Subtasks,
		&t.DueDate,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if t.BlockedBy == nil {
		t.BlockedBy = []int64{}
	}
	if t.Labels == nil {
		t.Labels = []model.Label{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []model.Subtask{}
	}
	t.Project = t.ProjectID
	if t.TeamID != nil {
		t.Team = *t.TeamID
	}
	return nil
}

// Insert creates a ticket and assigns its human-readable ticket ID. The
// project counter increment and the ticket insert run in one transaction, so
// the counter is bumped atomically at the storage layer and concurrent
// creations against the same project serialize on the project row. An insert
// failure rolls the increment back.
func (r *TicketRepository) Insert(ctx context.Context, t *model.Ticket) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ticket insert: %w", err)
	}
	defer tx.Rollback(ctx)

	var prefix string
	var counter int64
	err = tx.QueryRow(ctx, `
        UPDATE projects
        SET ticket_counter = ticket_counter + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING prefix, ticket_counter
    `, t.ProjectID).Scan(&prefix, &counter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("project %d: %w", t.ProjectID, ErrNotFound)
		}
		return fmt.Errorf("increment ticket counter: %w", err)
	}

	t.TicketID = fmt.Sprintf("%s-%d", prefix, counter)

	query := `
        INSERT INTO tickets (ticket_id, title, description, status, priority, project_id, team_id,
                             blocked_by, labels, subtasks, due_date, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING ` + ticketColumns + `
    `
	err = scanTicket(tx.QueryRow(ctx, query,
		t.TicketID, t.Title, t.Description, t.Status, t.Priority, t.ProjectID, t.TeamID,
		t.BlockedBy, t.Labels, t.Subtasks, t.DueDate, t.SortOrder,
	), t)
	if err != nil {
		r.logger.Error("Failed to insert ticket",
			zap.String("ticket_key", t.TicketID),
			zap.Int64("project_id", t.ProjectID),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ticket insert: %w", err)
	}
	r.logger.Info("Ticket created",
		zap.Int64("ticket_id", t.ID),
		zap.String("ticket_key", t.TicketID),
	)
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*model.Ticket, error) {
	var t model.Ticket
	err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) List(ctx context.Context, params ListParams) ([]model.Ticket, int64, error) {
	where, args := buildWhere(params.Filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM tickets%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		ticketColumns, where, orderBy, len(args)+1, len(args)+2,
	)
	rows, err := r.db.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, id int64, fields map[string]any) (*model.Ticket, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set, args := buildSet(fields, 1)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = $1 RETURNING %s`, set, ticketColumns)
	var t model.Ticket
	err := scanTicket(r.db.QueryRow(ctx, query, append([]any{id}, args...)...), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to update ticket", zap.Int64("ticket_id", id), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// Reorder renumbers a whole column in one transaction: every ticket in ids is
// assigned the given status and a sort_order equal to its array position.
// Persisting the full column keeps the stored order from diverging from the
// order a client displays after a drag.
func (r *TicketRepository) Reorder(ctx context.Context, status string, ids []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for pos, id := range ids {
		tag, err := tx.Exec(ctx, `
            UPDATE tickets
            SET status = $1, sort_order = $2, updated_at = NOW()
            WHERE id = $3
        `, status, pos, id)
		if err != nil {
			return fmt.Errorf("reorder ticket %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reorder ticket %d: %w", id, ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	r.logger.Info("Column reordered", zap.String("status", status), zap.Int("tickets", len(ids)))
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete ticket", zap.Int64("ticket_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Info("Ticket deleted", zap.Int64("ticket_id", id))
	return nil
}
