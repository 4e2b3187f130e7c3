package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"localpm/internal/model"
)

type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

func (r *ActivityRepository) Insert(ctx context.Context, e *model.ActivityEntry) error {
	query := `
        INSERT INTO activity_log (entity_type, entity_id, action, detail)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	detail := e.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	err := r.db.QueryRow(ctx, query, e.EntityType, e.EntityID, e.Action, detail).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert activity entry",
			zap.String("entity_type", e.EntityType),
			zap.Int64("entity_id", e.EntityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]model.ActivityEntry, error) {
	query := `
        SELECT id, entity_type, entity_id, action, detail, created_at
        FROM activity_log
        WHERE entity_type = $1 AND entity_id = $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ActivityEntry{}
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
