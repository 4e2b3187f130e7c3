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

const teamColumns = `id, name, description, color, created_at, updated_at`

type TeamRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTeamRepository(db *pgxpool.Pool, logger *zap.Logger) *TeamRepository {
	return &TeamRepository{db: db, logger: logger}
}

func scanTeam(row pgx.Row, t *model.Team) error {
	return row.Scan(&t.ID, &t.Name, &t.Description, &t.Color, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TeamRepository) Insert(ctx context.Context, t *model.Team) error {
	query := `
        INSERT INTO teams (name, description, color)
        VALUES ($1, $2, $3)
        RETURNING ` + teamColumns + `
    `
	if err := scanTeam(r.db.QueryRow(ctx, query, t.Name, t.Description, t.Color), t); err != nil {
		r.logger.Error("Failed to insert team", zap.String("name", t.Name), zap.Error(err))
		return err
	}
	r.logger.Info("Team created", zap.Int64("team_id", t.ID), zap.String("name", t.Name))
	return nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id int64) (*model.Team, error) {
	var t model.Team
	err := scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Team, error) {
	result := make(map[int64]*model.Team, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, err
		}
		result[t.ID] = &t
	}
	return result, rows.Err()
}

func (r *TeamRepository) List(ctx context.Context, params ListParams) ([]model.Team, int64, error) {
	where, args := buildWhere(params.Filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count teams: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM teams%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		teamColumns, where, orderBy, len(args)+1, len(args)+2,
	)
	rows, err := r.db.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var t model.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, 0, err
		}
		teams = append(teams, t)
	}
	return teams, total, rows.Err()
}

func (r *TeamRepository) Update(ctx context.Context, id int64, fields map[string]any) (*model.Team, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set, args := buildSet(fields, 1)
	query := fmt.Sprintf(`UPDATE teams SET %s WHERE id = $1 RETURNING %s`, set, teamColumns)
	var t model.Team
	err := scanTeam(r.db.QueryRow(ctx, query, append([]any{id}, args...)...), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to update team", zap.Int64("team_id", id), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// Delete removes the team. Tickets referencing it become unassigned through
// the ON DELETE SET NULL constraint; nothing cascades.
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete team", zap.Int64("team_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Info("Team deleted", zap.Int64("team_id", id))
	return nil
}
