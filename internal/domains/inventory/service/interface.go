package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/inventory/model"
)

// ReceiveResult is the {new_qty, id} success payload for receive().
type ReceiveResult struct {
	ID     uuid.UUID
	NewQty int
}

// MoveResult is the {msg} success payload for move().
type MoveResult struct {
	Message string
}

// ServiceInterface is the Inventory Store's public contract: receive, pick,
// move, and adjust, exactly as specified for the core state engine.
type ServiceInterface interface {
	// Receive implements receive(sku, loc, qty, lot?, expiry?, status?, serials?).
	Receive(ctx context.Context, sku, locationCode string, qty int, lot *string, expiry *time.Time, status model.Status, serials []string, actor *string) (*ReceiveResult, error)

	// ReceiveTx is Receive joined to a transaction the caller already holds
	// open, so a composite operation (PO receiving, RMA receipt) commits or
	// rolls back its own bookkeeping together with the physical receipt,
	// per spec.md §5's single-transaction rule.
	ReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status model.Status, serials []string, actor *string) (*ReceiveResult, error)

	// Pick implements the blind pick(inventory_id, qty) operation surface
	// entry: it mutates a named row directly, without touching an order.
	Pick(ctx context.Context, inventoryID uuid.UUID, qty int, serial *string, actor *string) (*model.Inventory, error)

	// Move implements move(sku, src, dst, qty, actor?).
	Move(ctx context.Context, sku, src, dst string, qty int, actor *string) (*MoveResult, error)

	// MoveTx is Move joined to a transaction the caller already holds
	// open, so a composite operation (replenishment completion) commits or
	// rolls back its own bookkeeping together with the stock movement.
	MoveTx(ctx context.Context, tx pgx.Tx, sku, src, dst string, qty int, actor *string) (*MoveResult, error)

	// Adjust implements adjust(invRow, newQty, reason): an unconditional
	// set used by cycle-count reconciliation and damage write-offs.
	Adjust(ctx context.Context, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*model.Inventory, error)

	// AdjustTx is Adjust joined to a transaction the caller already holds
	// open, so cycle-count's locked read, variance computation, and
	// submit_count bookkeeping commit or roll back together with the
	// quantity write.
	AdjustTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*model.Inventory, error)

	// ListForSKU and ListByLocation back the read-side of replenishment
	// and operator reporting.
	ListForSKU(ctx context.Context, sku string) ([]model.Inventory, error)
	ListByLocation(ctx context.Context, locationCode string) ([]model.Inventory, error)

	// GetByID returns a single inventory row by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)

	// GetByIDForUpdateTx locks a row within the caller's open transaction,
	// for composite operations (cycle-count's submit_count) that must read
	// the pre-adjustment quantity and write the adjustment atomically.
	GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, error)
}
