package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/purchaseorder/model"
)

// RepositoryInterface is the persistence contract for PurchaseOrder +
// Line: lock-read-conditional-update receipt bookkeeping, mirroring the
// order domain's own VersionedUpdateStatusTx idiom.
type RepositoryInterface interface {
	GetByNumber(ctx context.Context, poNumber string) (*model.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.PurchaseOrder, error)

	GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, poID uuid.UUID, sku string) (*model.Line, error)
	UpdateLineReceivedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyReceived int) error
	ListLinesForPOTx(ctx context.Context, tx pgx.Tx, poID uuid.UUID) ([]model.Line, error)

	VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.PurchaseOrder, error)
}
