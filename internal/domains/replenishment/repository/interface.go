package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/replenishment/model"
)

// RepositoryInterface is the persistence contract for replenishment tasks:
// the PENDING-dedup lookup generate_replenishment_tasks relies on, task
// creation/locking, and completion.
type RepositoryInterface interface {
	// PendingTaskExists backs the (item, dest, PENDING) dedup check.
	PendingTaskExists(ctx context.Context, sku, destLocation string) (bool, error)

	CreateTask(ctx context.Context, sku, sourceLocation, destLocation string, qtyToMove int) (*model.Task, error)

	GetTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) (*model.Task, error)
	CompleteTaskTx(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) error
}
