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

const projectColumns = `id, name, prefix, description, icon, color, status, ticket_counter, created_at, updated_at`

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func scanProject(row pgx.Row, p *model.Project) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Prefix,
		&p.Description,
		&p.Icon,
		&p.Color,
		&p.Status,
		&p.TicketCounter,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	query := `
        INSERT INTO projects (name, prefix, description, icon, color, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + projectColumns + `
    `
	err := scanProject(r.db.QueryRow(ctx, query,
		p.Name, p.Prefix, p.Description, p.Icon, p.Color, p.Status,
	), p)
	if err != nil {
		r.logger.Error("Failed to insert project",
			zap.String("prefix", p.Prefix),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Project created",
		zap.Int64("project_id", p.ID),
		zap.String("prefix", p.Prefix),
	)
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	var p model.Project
	if err := scanProject(r.db.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs returns the projects for a set of IDs, keyed by ID. Missing IDs
// are simply absent from the result.
func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Project, error) {
	result := make(map[int64]*model.Project, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		result[p.ID] = &p
	}
	return result, rows.Err()
}

func (r *ProjectRepository) List(ctx context.Context, params ListParams) ([]model.Project, int64, error) {
	where, args := buildWhere(params.Filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM projects%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		projectColumns, where, orderBy, len(args)+1, len(args)+2,
	)
	rows, err := r.db.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, fields map[string]any) (*model.Project, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set, args := buildSet(fields, 1)
	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $1 RETURNING %s`,
		set, projectColumns,
	)
	var p model.Project
	err := scanProject(r.db.QueryRow(ctx, query, append([]any{id}, args...)...), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to update project", zap.Int64("project_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int64("project_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Info("Project deleted", zap.Int64("project_id", id))
	return nil
}
