package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/cyclecount/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectInventoryColumns = `
	id, sku, location_code, lot_number, status, quantity, reserved_quantity,
	expiry_date, version, created_at, updated_at
`

func scanInventoryRows(rows pgx.Rows) ([]invmodel.Inventory, error) {
	defer rows.Close()
	var out []invmodel.Inventory
	for rows.Next() {
		var inv invmodel.Inventory
		if err := rows.Scan(
			&inv.ID, &inv.SKU, &inv.LocationCode, &inv.LotNumber, &inv.Status,
			&inv.Quantity, &inv.ReservedQuantity, &inv.ExpiryDate, &inv.Version,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// RandomInventoryRows samples up to limit rows with quantity > 0, uniformly
// at random without replacement, optionally filtered to a location prefix.
func (r *postgresRepository) RandomInventoryRows(ctx context.Context, locationPrefix *string, limit int) ([]invmodel.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE quantity > 0`
	args := []interface{}{}
	if locationPrefix != nil {
		query += ` AND location_code LIKE $1`
		args = append(args, *locationPrefix+"%")
	}
	query += fmt.Sprintf(" ORDER BY random() LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sample inventory rows: %w", err)
	}
	return scanInventoryRows(rows)
}

func (r *postgresRepository) InventoryRowsAtLocation(ctx context.Context, locationCode string) ([]invmodel.Inventory, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectInventoryColumns+` FROM inventory WHERE location_code = $1 AND quantity > 0`, locationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory at location: %w", err)
	}
	return scanInventoryRows(rows)
}

func (r *postgresRepository) CreateSessionTx(ctx context.Context, tx pgx.Tx, reference string, deviceID *string) (*model.Session, error) {
	var s model.Session
	err := tx.QueryRow(ctx, `
		INSERT INTO cycle_count_sessions (id, reference, status, device_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, reference, status, device_id, created_at, updated_at
	`, uuid.New(), reference, model.SessionInProgress, deviceID).
		Scan(&s.ID, &s.Reference, &s.Status, &s.DeviceID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cycle count session: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) CreateTaskTx(ctx context.Context, tx pgx.Tx, sessionID, inventoryID uuid.UUID, expectedQty int) (*model.Task, error) {
	var t model.Task
	err := tx.QueryRow(ctx, `
		INSERT INTO cycle_count_tasks (id, session_id, inventory_id, expected_qty, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, session_id, inventory_id, expected_qty, counted_qty, variance, status, created_at, updated_at
	`, uuid.New(), sessionID, inventoryID, expectedQty, model.TaskPending).
		Scan(&t.ID, &t.SessionID, &t.InventoryID, &t.ExpectedQty, &t.CountedQty, &t.Variance, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cycle count task: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) GetTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) (*model.Task, error) {
	var t model.Task
	err := tx.QueryRow(ctx, `
		SELECT id, session_id, inventory_id, expected_qty, counted_qty, variance, status, created_at, updated_at
		FROM cycle_count_tasks WHERE id = $1 FOR UPDATE
	`, taskID).Scan(&t.ID, &t.SessionID, &t.InventoryID, &t.ExpectedQty, &t.CountedQty, &t.Variance, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewTaskNotFoundError(taskID)
		}
		return nil, fmt.Errorf("failed to lock cycle count task: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) SubmitCountTx(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, countedQty, variance int) error {
	_, err := tx.Exec(ctx, `
		UPDATE cycle_count_tasks
		SET counted_qty = $1, variance = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`, countedQty, variance, model.TaskCounted, taskID)
	if err != nil {
		return fmt.Errorf("failed to submit cycle count: %w", err)
	}
	return nil
}

func (r *postgresRepository) CountPendingTasks(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM cycle_count_tasks WHERE session_id = $1 AND status = $2
	`, sessionID, model.TaskPending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CompleteSessionTx(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE cycle_count_sessions SET status = $1, updated_at = NOW() WHERE id = $2
	`, model.SessionCompleted, sessionID)
	if err != nil {
		return fmt.Errorf("failed to complete cycle count session: %w", err)
	}
	return nil
}

// GetOrCreateSystemSessionTx returns the standing SYS-ERR session id used to
// group short_pick's auto-raised discrepancy tasks, creating it the first
// time any shortage is reported.
func (r *postgresRepository) GetOrCreateSystemSessionTx(ctx context.Context, tx pgx.Tx) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM cycle_count_sessions WHERE reference = $1`, model.SystemErrorSessionReference).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to look up system error session: %w", err)
	}

	session, err := r.CreateSessionTx(ctx, tx, model.SystemErrorSessionReference, nil)
	if err != nil {
		return uuid.Nil, err
	}
	return session.ID, nil
}

func (r *postgresRepository) RecordSystemDiscrepancyTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, expectedQty int) error {
	sessionID, err := r.GetOrCreateSystemSessionTx(ctx, tx)
	if err != nil {
		return err
	}
	_, err = r.CreateTaskTx(ctx, tx, sessionID, inventoryID, expectedQty)
	return err
}
