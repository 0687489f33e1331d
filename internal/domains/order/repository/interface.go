package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/order/model"
)

// RepositoryInterface is the persistence contract for the Order/OrderLine
// aggregate the Allocation Engine and Order Pipeline operate on.
type RepositoryInterface interface {
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)
	VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.Order, error)

	ListLinesForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error)
	ListLinesForOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderLine, error)
	GetLineForUpdate(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) (*model.OrderLine, error)
	GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, sku string) (*model.OrderLine, error)
	UpdateLineAllocationTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyAllocated int) error
	UpdateLinePickedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyPicked int) error

	ListAllocatedNotOnHold(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error)
	ListByIDs(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error)
	ListByBatchReference(ctx context.Context, batchReference string) ([]model.Order, error)

	// ListByIDsForUpdateTx locks every named order row, for
	// create_cluster_batch's atomic all-or-nothing eligibility check.
	ListByIDsForUpdateTx(ctx context.Context, tx pgx.Tx, orderIDs []uuid.UUID) ([]model.Order, error)
	AssignBatchReferenceTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, batchReference string) error
}
