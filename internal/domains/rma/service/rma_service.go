package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/rma/model"
	"wms-core/internal/domains/rma/repository"
	"wms-core/pkg/database"
	"wms-core/pkg/logger"
)

// txRunner mirrors the seam used across the other domains.
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

type RMAService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	inventory inventoryReceiver
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, inventory inventoryReceiver) ServiceInterface {
	return &RMAService{tx: poolTxRunner{pool: pool}, repo: repo, inventory: inventory}
}

// ProcessReturnReceipt implements process_return_receipt(rma_id,
// location_code?). Locking the RMA row before issuing any restock and
// rejecting an already-RECEIVED row is what makes this idempotent: a
// retried or duplicate call never restocks a second time.
func (s *RMAService) ProcessReturnReceipt(ctx context.Context, rmaNumber string, locationCode *string, actor *string) (*model.ReceiptResult, error) {
	location := model.DefaultIntakeLocation
	if locationCode != nil {
		location = *locationCode
	}

	return runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.ReceiptResult, error) {
		rma, err := s.repo.GetByNumberForUpdate(ctx, tx, rmaNumber)
		if err != nil {
			return nil, err
		}
		if rma.Status == model.StatusReceived {
			return nil, model.NewAlreadyProcessedError(rmaNumber)
		}

		lines, err := s.repo.ListLinesForRMATx(ctx, tx, rma.ID)
		if err != nil {
			return nil, err
		}

		receipts := make([]model.LineReceipt, 0, len(lines))
		for _, line := range lines {
			if _, err := s.inventory.ReceiveTx(ctx, tx, line.SKU, location, line.QtyToReturn, nil, nil, invmodel.StatusQuarantine, nil, actor); err != nil {
				return nil, err
			}
			if err := s.repo.UpdateLineReceivedTx(ctx, tx, line.ID, line.QtyToReturn); err != nil {
				return nil, err
			}
			receipts = append(receipts, model.LineReceipt{SKU: line.SKU, QtyReceived: line.QtyToReturn})
		}

		advanced, err := s.repo.VersionedUpdateStatusTx(ctx, tx, rma.ID, rma.Version, model.StatusReceived)
		if err != nil {
			return nil, err
		}
		if advanced == nil {
			return nil, model.NewConflictError(rmaNumber)
		}

		logger.Info("rma received", map[string]interface{}{"rma_number": rmaNumber, "location": location, "line_count": len(receipts)})
		return &model.ReceiptResult{RMANumber: rmaNumber, Status: advanced.Status, Location: location, Lines: receipts}, nil
	})
}
