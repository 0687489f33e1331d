package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	invmodel "wms-core/internal/domains/inventory/model"
	invservice "wms-core/internal/domains/inventory/service"
	"wms-core/internal/domains/rma/model"
)

// ServiceInterface is RMA Intake's public contract.
type ServiceInterface interface {
	// ProcessReturnReceipt implements process_return_receipt(rma_id,
	// location_code?): restocks every line's qty_to_return into a
	// QUARANTINE row at the intake location, sets qty_received, and flips
	// the RMA to RECEIVED. Idempotent: re-invocation on an already-RECEIVED
	// RMA fails AlreadyProcessed rather than double-restocking.
	ProcessReturnReceipt(ctx context.Context, rmaNumber string, locationCode *string, actor *string) (*model.ReceiptResult, error)
}

// inventoryReceiver is the narrow inventory collaborator the restock step
// delegates the physical receipt to. It takes the caller's tx so the
// restock and the RMA's own line/status bookkeeping commit or roll back
// together, per spec.md §5's single-transaction rule.
type inventoryReceiver interface {
	ReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status invmodel.Status, serials []string, actor *string) (*invservice.ReceiveResult, error)
}
