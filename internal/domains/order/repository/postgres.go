package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/order/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectOrderColumns = `
	id, order_number, customer_name, customer_email, address_snapshot,
	status, is_on_hold, priority, batch_reference, version, created_at, updated_at
`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.AddressSnap,
		&o.Status, &o.IsOnHold, &o.Priority, &o.BatchReference, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
}

func (r *postgresRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
	var o model.Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewOrderNotFoundError(orderNumber)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	var o model.Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, model.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return &o, nil
}

// VersionedUpdateStatusTx applies the optimistic conditional update the
// pipeline's status transitions rely on. A 0-row result (nil, nil) signals
// a version conflict rather than a hard error.
func (r *postgresRepository) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.Order, error) {
	row := tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING `+selectOrderColumns,
		status, id, expectedVersion,
	)
	var o model.Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &o, nil
}

const selectLineColumns = `id, order_id, sku, qty_ordered, qty_allocated, qty_picked, created_at, updated_at`

func scanLine(row pgx.Row, l *model.OrderLine) error {
	return row.Scan(&l.ID, &l.OrderID, &l.SKU, &l.QtyOrdered, &l.QtyAllocated, &l.QtyPicked, &l.CreatedAt, &l.UpdatedAt)
}

func (r *postgresRepository) ListLinesForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectLineColumns+` FROM order_lines WHERE order_id = $1 ORDER BY sku`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return scanLines(rows)
}

func (r *postgresRepository) ListLinesForOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderLine, error) {
	rows, err := tx.Query(ctx, `SELECT `+selectLineColumns+` FROM order_lines WHERE order_id = $1 ORDER BY sku FOR UPDATE`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines for update: %w", err)
	}
	return scanLines(rows)
}

func scanLines(rows pgx.Rows) ([]model.OrderLine, error) {
	defer rows.Close()
	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := scanLine(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresRepository) GetLineForUpdate(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) (*model.OrderLine, error) {
	row := tx.QueryRow(ctx, `SELECT `+selectLineColumns+` FROM order_lines WHERE id = $1 FOR UPDATE`, lineID)
	var l model.OrderLine
	if err := scanLine(row, &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to lock order line: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, sku string) (*model.OrderLine, error) {
	row := tx.QueryRow(ctx, `SELECT `+selectLineColumns+` FROM order_lines WHERE order_id = $1 AND sku = $2 FOR UPDATE`, orderID, sku)
	var l model.OrderLine
	if err := scanLine(row, &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to lock order line: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) UpdateLineAllocationTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyAllocated int) error {
	_, err := tx.Exec(ctx, `UPDATE order_lines SET qty_allocated = $1, updated_at = NOW() WHERE id = $2`, qtyAllocated, lineID)
	if err != nil {
		return fmt.Errorf("failed to update line allocation: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateLinePickedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyPicked int) error {
	_, err := tx.Exec(ctx, `UPDATE order_lines SET qty_picked = $1, updated_at = NOW() WHERE id = $2`, qtyPicked, lineID)
	if err != nil {
		return fmt.Errorf("failed to update line picked quantity: %w", err)
	}
	return nil
}

// ListAllocatedNotOnHold filters the given order ids to those eligible for
// wave planning: status=ALLOCATED and not on hold, ordered by
// (priority DESC, created_at ASC) per the wave planner's selection rule.
func (r *postgresRepository) ListAllocatedNotOnHold(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectOrderColumns+`
		FROM orders
		WHERE id = ANY($1) AND status = $2 AND is_on_hold = false
		ORDER BY priority DESC, created_at ASC
	`, orderIDs, model.StatusAllocated)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocated orders: %w", err)
	}
	return scanOrders(rows)
}

func (r *postgresRepository) ListByIDs(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE id = ANY($1)`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return scanOrders(rows)
}

func (r *postgresRepository) ListByBatchReference(ctx context.Context, batchReference string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectOrderColumns+` FROM orders WHERE batch_reference = $1 ORDER BY priority DESC, created_at ASC
	`, batchReference)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by batch: %w", err)
	}
	return scanOrders(rows)
}

func (r *postgresRepository) ListByIDsForUpdateTx(ctx context.Context, tx pgx.Tx, orderIDs []uuid.UUID) ([]model.Order, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+selectOrderColumns+` FROM orders WHERE id = ANY($1) ORDER BY id FOR UPDATE
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock orders: %w", err)
	}
	return scanOrders(rows)
}

func (r *postgresRepository) AssignBatchReferenceTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, batchReference string) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET batch_reference = $1, updated_at = NOW() WHERE id = $2`, batchReference, orderID)
	if err != nil {
		return fmt.Errorf("failed to assign batch reference: %w", err)
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
