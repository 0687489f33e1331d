package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/rma/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectRMAColumns = `id, rma_number, status, version, created_at, updated_at`

func (r *postgresRepository) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, rmaNumber string) (*model.RMA, error) {
	var rma model.RMA
	err := tx.QueryRow(ctx, `SELECT `+selectRMAColumns+` FROM rmas WHERE rma_number = $1 FOR UPDATE`, rmaNumber).
		Scan(&rma.ID, &rma.RMANumber, &rma.Status, &rma.Version, &rma.CreatedAt, &rma.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewRMANotFoundError(rmaNumber)
		}
		return nil, fmt.Errorf("failed to lock rma: %w", err)
	}
	return &rma, nil
}

func (r *postgresRepository) ListLinesForRMATx(ctx context.Context, tx pgx.Tx, rmaID uuid.UUID) ([]model.Line, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, rma_id, sku, qty_to_return, qty_received, created_at, updated_at
		FROM rma_lines WHERE rma_id = $1 FOR UPDATE
	`, rmaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rma lines: %w", err)
	}
	defer rows.Close()

	var out []model.Line
	for rows.Next() {
		var l model.Line
		if err := rows.Scan(&l.ID, &l.RMAID, &l.SKU, &l.QtyToReturn, &l.QtyReceived, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rma line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepository) UpdateLineReceivedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyReceived int) error {
	_, err := tx.Exec(ctx, `UPDATE rma_lines SET qty_received = $1, updated_at = NOW() WHERE id = $2`, qtyReceived, lineID)
	if err != nil {
		return fmt.Errorf("failed to update rma line: %w", err)
	}
	return nil
}

func (r *postgresRepository) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.RMA, error) {
	var rma model.RMA
	err := tx.QueryRow(ctx, `
		UPDATE rmas
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING `+selectRMAColumns, status, id, expectedVersion).
		Scan(&rma.ID, &rma.RMANumber, &rma.Status, &rma.Version, &rma.CreatedAt, &rma.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update rma status: %w", err)
	}
	return &rma, nil
}
