package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wms-core/internal/domains/rma/model"
)

// RepositoryInterface is the persistence contract for RMA + Line.
type RepositoryInterface interface {
	GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, rmaNumber string) (*model.RMA, error)
	ListLinesForRMATx(ctx context.Context, tx pgx.Tx, rmaID uuid.UUID) ([]model.Line, error)
	UpdateLineReceivedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyReceived int) error
	VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.RMA, error)
}
