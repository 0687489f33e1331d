package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/replenishment/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectTaskColumns = `id, sku, source_location, dest_location, qty_to_move, status, created_at, updated_at`

func (r *postgresRepository) PendingTaskExists(ctx context.Context, sku, destLocation string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM replenishment_tasks
			WHERE sku = $1 AND dest_location = $2 AND status = $3
		)
	`, sku, destLocation, model.StatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending replenishment task: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CreateTask(ctx context.Context, sku, sourceLocation, destLocation string, qtyToMove int) (*model.Task, error) {
	var task model.Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO replenishment_tasks (sku, source_location, dest_location, qty_to_move, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+selectTaskColumns, sku, sourceLocation, destLocation, qtyToMove, model.StatusPending).
		Scan(&task.ID, &task.SKU, &task.SourceLocation, &task.DestLocation, &task.QtyToMove, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create replenishment task: %w", err)
	}
	return &task, nil
}

func (r *postgresRepository) GetTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := tx.QueryRow(ctx, `SELECT `+selectTaskColumns+` FROM replenishment_tasks WHERE id = $1 FOR UPDATE`, taskID).
		Scan(&task.ID, &task.SKU, &task.SourceLocation, &task.DestLocation, &task.QtyToMove, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewTaskNotFoundError(taskID)
		}
		return nil, fmt.Errorf("failed to lock replenishment task: %w", err)
	}
	return &task, nil
}

func (r *postgresRepository) CompleteTaskTx(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE replenishment_tasks SET status = $1, updated_at = NOW() WHERE id = $2
	`, model.StatusCompleted, taskID)
	if err != nil {
		return fmt.Errorf("failed to complete replenishment task: %w", err)
	}
	return nil
}
