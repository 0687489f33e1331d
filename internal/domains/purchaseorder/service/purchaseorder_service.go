package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	pomodel "wms-core/internal/domains/purchaseorder/model"
	"wms-core/internal/domains/purchaseorder/repository"
	"wms-core/pkg/database"
	"wms-core/pkg/logger"
)

// txRunner mirrors the seam used across inventory/order/cyclecount.
type txRunner interface {
	RunTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type poolTxRunner struct {
	pool *pgxpool.Pool
}

func (p poolTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return database.WithTransaction(ctx, p.pool, fn)
}

func runTxResult[T any](ctx context.Context, runner txRunner, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error
	err := runner.RunTx(ctx, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

type PurchaseOrderService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	inventory inventoryReceiver
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, inventory inventoryReceiver) ServiceInterface {
	return &PurchaseOrderService{tx: poolTxRunner{pool: pool}, repo: repo, inventory: inventory}
}

// ReceivePOItem implements receive_po_item(po_id, sku, location, qty, lot?,
// expiry?). The physical receipt and this domain's own line/status
// bookkeeping run inside the same transaction, so a later conflict (e.g. a
// concurrent status update) rolls back the inventory credit too rather than
// leaving stock posted with no PO progress recorded; over-receipt is never
// capped, per spec.md §9.2.
func (s *PurchaseOrderService) ReceivePOItem(ctx context.Context, poNumber, sku, locationCode string, qty int, lot *string, expiry *time.Time, actor *string) (*pomodel.ReceiveResult, error) {
	result, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*pomodel.ReceiveResult, error) {
		po, err := s.repo.GetByNumber(ctx, poNumber)
		if err != nil {
			return nil, err
		}
		locked, err := s.repo.GetByIDForUpdate(ctx, tx, po.ID)
		if err != nil {
			return nil, err
		}

		if _, err := s.inventory.ReceiveTx(ctx, tx, sku, locationCode, qty, lot, expiry, invmodel.StatusAvailable, nil, actor); err != nil {
			return nil, err
		}

		line, err := s.repo.GetLineBySKUForUpdate(ctx, tx, locked.ID, sku)
		if err != nil {
			return nil, err
		}
		line.QtyReceived += qty
		if err := s.repo.UpdateLineReceivedTx(ctx, tx, line.ID, line.QtyReceived); err != nil {
			return nil, err
		}

		lines, err := s.repo.ListLinesForPOTx(ctx, tx, locked.ID)
		if err != nil {
			return nil, err
		}
		allReceived := true
		for i := range lines {
			if lines[i].ID == line.ID {
				lines[i] = *line
			}
			if lines[i].QtyReceived < lines[i].QtyOrdered {
				allReceived = false
			}
		}

		finalStatus := locked.Status
		if allReceived && locked.Status != pomodel.StatusReceived {
			advanced, err := s.repo.VersionedUpdateStatusTx(ctx, tx, locked.ID, locked.Version, pomodel.StatusReceived)
			if err != nil {
				return nil, err
			}
			if advanced == nil {
				return nil, pomodel.NewConflictError(poNumber)
			}
			finalStatus = advanced.Status
		} else if locked.Status == pomodel.StatusDraft {
			advanced, err := s.repo.VersionedUpdateStatusTx(ctx, tx, locked.ID, locked.Version, pomodel.StatusOrdered)
			if err != nil {
				return nil, err
			}
			if advanced == nil {
				return nil, pomodel.NewConflictError(poNumber)
			}
			finalStatus = advanced.Status
		}

		return &pomodel.ReceiveResult{
			PONumber: poNumber,
			Status:   finalStatus,
			LineProgress: pomodel.LineProgress{
				SKU:      line.SKU,
				Ordered:  line.QtyOrdered,
				Received: line.QtyReceived,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("purchase order item received", map[string]interface{}{"po_number": poNumber, "sku": sku, "qty": qty})
	return result, nil
}
