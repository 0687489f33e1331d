package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/inventory/model"
)

// RepositoryInterface is the persistence contract for the Inventory Store:
// the stock rows keyed by (sku, location_code, lot_number, status) and the
// serial numbers that ride alongside serialized items.
type RepositoryInterface interface {
	// GetByKey locates a row by its composite key. Returns
	// model.ErrInventoryNotFound if absent.
	GetByKey(ctx context.Context, sku, locationCode string, lot *string, status model.Status) (*model.Inventory, error)

	// GetByID locates a row by its surrogate id, used by the blind pick
	// operation surface entry.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)

	// GetByIDForUpdate locks the row with SELECT ... FOR UPDATE inside tx.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, error)

	// UpsertReceiveTx increments (or creates) the row identified by the
	// composite key by qty, inside the caller's transaction, and returns
	// the row post-increment with version bumped.
	UpsertReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, lot *string, status model.Status, expiry *time.Time, qty int) (*model.Inventory, error)

	// VersionedUpdateTx applies a conditional UPDATE ... WHERE version = $n
	// and returns the updated row. Returns (nil, nil) if no row matched
	// because the version moved.
	VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*model.Inventory, error)

	// CandidatesForAllocation returns AVAILABLE rows for a sku with
	// quantity > reserved_quantity, ordered FEFO:
	// (expiry_date ASC NULLS LAST, id ASC). Rows carry no hold flag, so no
	// hold filter is applied; status is the only eligibility check.
	CandidatesForAllocation(ctx context.Context, tx pgx.Tx, sku string) ([]model.Inventory, error)

	// CandidatesForPick returns candidate rows for pick_order_item,
	// optionally filtered by location/lot, ordered FEFO:
	// (expiry_date ASC NULLS LAST, version ASC).
	CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status model.Status) ([]model.Inventory, error)

	ListForSKU(ctx context.Context, sku string) ([]model.Inventory, error)
	ListByLocation(ctx context.Context, locationCode string) ([]model.Inventory, error)

	// RegisterSerialsTx inserts new IN_STOCK serials bound to invID, inside
	// tx. Returns model.ErrSerialMismatch if any serial already exists.
	RegisterSerialsTx(ctx context.Context, tx pgx.Tx, invID uuid.UUID, sku, locationCode string, serials []string) error

	// GetSerialForUpdate locks one serial row for the pick path.
	GetSerialForUpdate(ctx context.Context, tx pgx.Tx, serial string) (*model.SerialNumber, error)

	// TransitionSerialTx moves a serial to a new status and (optionally)
	// re-points it at a different inventory row / location / order line.
	TransitionSerialTx(ctx context.Context, tx pgx.Tx, serial string, status model.SerialStatus, invID *uuid.UUID, locationCode *string, orderLineID *uuid.UUID) error

	// AnyIdleSerialAt returns one IN_STOCK serial for (sku, location), used
	// by pick() when the caller didn't name a specific serial.
	AnyIdleSerialAt(ctx context.Context, tx pgx.Tx, sku, locationCode string) (*model.SerialNumber, error)

	// ListSerialsByOrderLineForUpdateTx locks every serial assigned to an
	// order line, used by ship() to bulk-transition PACKED → SHIPPED.
	ListSerialsByOrderLineForUpdateTx(ctx context.Context, tx pgx.Tx, orderLineID uuid.UUID) ([]model.SerialNumber, error)
}
