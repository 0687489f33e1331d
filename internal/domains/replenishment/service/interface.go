package service

import (
	"context"

	"github.com/google/uuid"

	"wms-core/internal/domains/replenishment/model"
)

// ServiceInterface is the Replenishment Planner's public contract.
type ServiceInterface interface {
	// GenerateReplenishmentTasks implements generate_replenishment_tasks():
	// scans every pick-face LocationConfiguration, and for each whose
	// current AVAILABLE quantity has fallen below min_qty, opens a task
	// drawing from the largest eligible reserve row — unless a PENDING
	// task already exists for that (sku, dest).
	GenerateReplenishmentTasks(ctx context.Context) ([]model.Task, error)

	// CompleteReplenishment implements complete_replenishment(task):
	// moves qty_to_move from source to dest via the Inventory Store and
	// marks the task COMPLETED.
	CompleteReplenishment(ctx context.Context, taskID uuid.UUID, actor *string) (*model.Task, error)
}
