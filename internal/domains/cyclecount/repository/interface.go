package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/cyclecount/model"
)

// RepositoryInterface is the persistence contract for the Cycle Count
// Engine: session/task bookkeeping plus the random/location-scoped
// inventory row sampling create_random/create_for_location run against.
type RepositoryInterface interface {
	RandomInventoryRows(ctx context.Context, locationPrefix *string, limit int) ([]invmodel.Inventory, error)
	InventoryRowsAtLocation(ctx context.Context, locationCode string) ([]invmodel.Inventory, error)

	CreateSessionTx(ctx context.Context, tx pgx.Tx, reference string, deviceID *string) (*model.Session, error)
	CreateTaskTx(ctx context.Context, tx pgx.Tx, sessionID, inventoryID uuid.UUID, expectedQty int) (*model.Task, error)

	GetTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) (*model.Task, error)
	SubmitCountTx(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, countedQty, variance int) error
	CountPendingTasks(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) (int, error)
	CompleteSessionTx(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) error

	// GetOrCreateSystemSessionTx returns the id of the standing SYS-ERR
	// session, creating it on first use.
	GetOrCreateSystemSessionTx(ctx context.Context, tx pgx.Tx) (uuid.UUID, error)

	// RecordSystemDiscrepancyTx raises a PENDING recount task against the
	// standing SYS-ERR session for a row short_pick found depleted below
	// its reservation. Composes GetOrCreateSystemSessionTx + CreateTaskTx
	// so callers outside this package never juggle the session id.
	RecordSystemDiscrepancyTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, expectedQty int) error
}
