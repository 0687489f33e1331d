package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/purchaseorder/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectPOColumns = `id, po_number, status, version, created_at, updated_at`

func scanPO(row pgx.Row) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := row.Scan(&po.ID, &po.PONumber, &po.Status, &po.Version, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *postgresRepository) GetByNumber(ctx context.Context, poNumber string) (*model.PurchaseOrder, error) {
	po, err := scanPO(r.pool.QueryRow(ctx, `SELECT `+selectPOColumns+` FROM purchase_orders WHERE po_number = $1`, poNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewPONotFoundError(poNumber)
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return po, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := scanPO(tx.QueryRow(ctx, `SELECT `+selectPOColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewPONotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to lock purchase order: %w", err)
	}
	return po, nil
}

const selectLineColumns = `id, po_id, sku, qty_ordered, qty_received, created_at, updated_at`

func scanLine(row pgx.Row) (*model.Line, error) {
	var l model.Line
	if err := row.Scan(&l.ID, &l.POID, &l.SKU, &l.QtyOrdered, &l.QtyReceived, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postgresRepository) GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, poID uuid.UUID, sku string) (*model.Line, error) {
	l, err := scanLine(tx.QueryRow(ctx, `SELECT `+selectLineColumns+` FROM purchase_order_lines WHERE po_id = $1 AND sku = $2 FOR UPDATE`, poID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewLineNotFoundError(poID.String(), sku)
		}
		return nil, fmt.Errorf("failed to lock purchase order line: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) UpdateLineReceivedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyReceived int) error {
	_, err := tx.Exec(ctx, `UPDATE purchase_order_lines SET qty_received = $1, updated_at = NOW() WHERE id = $2`, qtyReceived, lineID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order line: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListLinesForPOTx(ctx context.Context, tx pgx.Tx, poID uuid.UUID) ([]model.Line, error) {
	rows, err := tx.Query(ctx, `SELECT `+selectLineColumns+` FROM purchase_order_lines WHERE po_id = $1`, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase order lines: %w", err)
	}
	defer rows.Close()

	var out []model.Line
	for rows.Next() {
		var l model.Line
		if err := rows.Scan(&l.ID, &l.POID, &l.SKU, &l.QtyOrdered, &l.QtyReceived, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepository) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.PurchaseOrder, error) {
	po, err := scanPO(tx.QueryRow(ctx, `
		UPDATE purchase_orders
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING `+selectPOColumns, status, id, expectedVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update purchase order status: %w", err)
	}
	return po, nil
}
