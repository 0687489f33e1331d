package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	invmodel "wms-core/internal/domains/inventory/model"
	invservice "wms-core/internal/domains/inventory/service"
	pomodel "wms-core/internal/domains/purchaseorder/model"
)

// ServiceInterface is Purchase Order Receiving's public contract.
type ServiceInterface interface {
	// ReceivePOItem implements receive_po_item(po_id, sku, location, qty,
	// lot?, expiry?): posts the physical receipt, bumps the matching
	// line's qty_received (uncapped — over-receipt is permitted), and
	// recomputes the PO's status from the line sums.
	ReceivePOItem(ctx context.Context, poNumber, sku, locationCode string, qty int, lot *string, expiry *time.Time, actor *string) (*pomodel.ReceiveResult, error)
}

// inventoryReceiver is the narrow inventory collaborator receive_po_item
// delegates the physical receipt to. It takes the caller's tx so the
// physical receipt and the PO's own line/status bookkeeping commit or roll
// back together, per spec.md §5's single-transaction rule.
type inventoryReceiver interface {
	ReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status invmodel.Status, serials []string, actor *string) (*invservice.ReceiveResult, error)
}
