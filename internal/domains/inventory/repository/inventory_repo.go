package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/inventory/model"
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

func scanInventory(row pgx.Row, inv *model.Inventory) error {
	return row.Scan(
		&inv.ID, &inv.SKU, &inv.LocationCode, &inv.LotNumber, &inv.Status,
		&inv.Quantity, &inv.ReservedQuantity, &inv.ExpiryDate, &inv.Version,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
}

func (r *postgresRepository) GetByKey(ctx context.Context, sku, locationCode string, lot *string, status model.Status) (*model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory
		WHERE sku = $1 AND location_code = $2 AND lot_number IS NOT DISTINCT FROM $3 AND status = $4`

	var inv model.Inventory
	err := scanInventory(r.pool.QueryRow(ctx, query, sku, locationCode, lot, status), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewInventoryNotFoundError(sku, locationCode, lot, status)
		}
		return nil, fmt.Errorf("failed to get inventory by key: %w", err)
	}
	return &inv, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE id = $1`
	var inv model.Inventory
	if err := scanInventory(r.pool.QueryRow(ctx, query, id), &inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%s", model.ErrInventoryNotFound, id)
		}
		return nil, fmt.Errorf("failed to get inventory by id: %w", err)
	}
	return &inv, nil
}

// GetByIDForUpdate holds the row lock for the duration of the caller's
// transaction, per the allocation engine's Order-then-Lines-then-Inventory
// acquisition order.
func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE id = $1 FOR UPDATE`
	var inv model.Inventory
	if err := scanInventory(tx.QueryRow(ctx, query, id), &inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%s", model.ErrInventoryNotFound, id)
		}
		return nil, fmt.Errorf("failed to lock inventory row: %w", err)
	}
	return &inv, nil
}

// UpsertReceiveTx implements the receive() insert-or-increment semantics on
// the composite key. Postgres's ON CONFLICT target is the unique constraint
// on (sku, location_code, lot_number, status); expiry_date is only set on
// insert so a later receive against the same lot can't silently change it.
func (r *postgresRepository) UpsertReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, lot *string, status model.Status, expiry *time.Time, qty int) (*model.Inventory, error) {
	query := `
		INSERT INTO inventory (id, sku, location_code, lot_number, status, quantity, reserved_quantity, expiry_date, version)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 1)
		ON CONFLICT (sku, location_code, lot_number, status) DO UPDATE
			SET quantity = inventory.quantity + EXCLUDED.quantity,
			    version = inventory.version + 1,
			    updated_at = NOW()
		RETURNING ` + selectInventoryColumns

	var inv model.Inventory
	err := scanInventory(tx.QueryRow(ctx, query, uuid.New(), sku, locationCode, lot, status, qty, expiry), &inv)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return nil, model.NewUnknownSKUError(sku)
			}
		}
		return nil, fmt.Errorf("failed to upsert inventory on receive: %w", err)
	}
	return &inv, nil
}

// VersionedUpdateTx is the optimistic concurrency primitive every mutator
// built on top of pick/adjust ultimately calls: a single
// UPDATE ... WHERE version = $expected, re-checked by the caller's retry
// loop on zero rows affected.
func (r *postgresRepository) VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*model.Inventory, error) {
	query := `
		UPDATE inventory
		SET quantity = $1, reserved_quantity = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING ` + selectInventoryColumns

	var inv model.Inventory
	err := scanInventory(tx.QueryRow(ctx, query, newQty, newReserved, id, expectedVersion), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // signals a version conflict to the caller's retry loop
		}
		return nil, fmt.Errorf("failed to apply versioned update: %w", err)
	}
	return &inv, nil
}

// CandidatesForAllocation implements the Allocation Engine's FEFO ordering:
// (expiry_date ASC NULLS LAST, id ASC), restricted to AVAILABLE rows with
// spare capacity.
func (r *postgresRepository) CandidatesForAllocation(ctx context.Context, tx pgx.Tx, sku string) ([]model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory
		WHERE sku = $1 AND status = $2 AND quantity > reserved_quantity
		ORDER BY expiry_date ASC NULLS LAST, id ASC
		FOR UPDATE`

	rows, err := tx.Query(ctx, query, sku, model.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation candidates: %w", err)
	}
	defer rows.Close()

	var out []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := scanInventory(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan allocation candidate: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CandidatesForPick implements pick_order_item's FEFO fallback ordering:
// (expiry_date ASC NULLS LAST, version ASC), optionally narrowed to a
// specific location and/or lot.
func (r *postgresRepository) CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status model.Status) ([]model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE sku = $1 AND status = $2`
	args := []interface{}{sku, status}
	n := 3
	if locationCode != nil {
		query += fmt.Sprintf(" AND location_code = $%d", n)
		args = append(args, *locationCode)
		n++
	}
	if lot != nil {
		query += fmt.Sprintf(" AND lot_number = $%d", n)
		args = append(args, *lot)
		n++
	}
	query += " ORDER BY expiry_date ASC NULLS LAST, version ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pick candidates: %w", err)
	}
	defer rows.Close()

	var out []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := scanInventory(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan pick candidate: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ListForSKU(ctx context.Context, sku string) ([]model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE sku = $1 ORDER BY location_code`
	rows, err := r.pool.Query(ctx, query, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for sku: %w", err)
	}
	defer rows.Close()

	var out []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := scanInventory(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *postgresRepository) ListByLocation(ctx context.Context, locationCode string) ([]model.Inventory, error) {
	query := `SELECT ` + selectInventoryColumns + ` FROM inventory WHERE location_code = $1 ORDER BY sku`
	rows, err := r.pool.Query(ctx, query, locationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory by location: %w", err)
	}
	defer rows.Close()

	var out []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := scanInventory(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *postgresRepository) RegisterSerialsTx(ctx context.Context, tx pgx.Tx, invID uuid.UUID, sku, locationCode string, serials []string) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO serial_numbers (serial, sku, location_code, inventory_id, status) VALUES ($1, $2, $3, $4, $5)`
	for _, s := range serials {
		batch.Queue(query, s, sku, locationCode, invID, model.SerialInStock)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(serials); i++ {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.NewSerialMismatchError(fmt.Sprintf("serial %s already registered", serials[i]))
			}
			return fmt.Errorf("failed to register serial %s: %w", serials[i], err)
		}
	}
	return nil
}

func (r *postgresRepository) GetSerialForUpdate(ctx context.Context, tx pgx.Tx, serial string) (*model.SerialNumber, error) {
	query := `
		SELECT serial, sku, location_code, inventory_id, order_line_id, status, created_at, updated_at
		FROM serial_numbers WHERE serial = $1 FOR UPDATE
	`
	var sn model.SerialNumber
	err := tx.QueryRow(ctx, query, serial).Scan(
		&sn.Serial, &sn.SKU, &sn.LocationCode, &sn.InventoryID, &sn.OrderLineID, &sn.Status, &sn.CreatedAt, &sn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewInvalidSerialError(serial)
		}
		return nil, fmt.Errorf("failed to lock serial: %w", err)
	}
	return &sn, nil
}

func (r *postgresRepository) TransitionSerialTx(ctx context.Context, tx pgx.Tx, serial string, status model.SerialStatus, invID *uuid.UUID, locationCode *string, orderLineID *uuid.UUID) error {
	query := `
		UPDATE serial_numbers
		SET status = $1,
		    inventory_id = COALESCE($2, inventory_id),
		    location_code = COALESCE($3, location_code),
		    order_line_id = $4,
		    updated_at = NOW()
		WHERE serial = $5
	`
	tag, err := tx.Exec(ctx, query, status, invID, locationCode, orderLineID, serial)
	if err != nil {
		return fmt.Errorf("failed to transition serial %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewInvalidSerialError(serial)
	}
	return nil
}

func (r *postgresRepository) ListSerialsByOrderLineForUpdateTx(ctx context.Context, tx pgx.Tx, orderLineID uuid.UUID) ([]model.SerialNumber, error) {
	query := `
		SELECT serial, sku, location_code, inventory_id, order_line_id, status, created_at, updated_at
		FROM serial_numbers WHERE order_line_id = $1 FOR UPDATE
	`
	rows, err := tx.Query(ctx, query, orderLineID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock serials for order line: %w", err)
	}
	defer rows.Close()

	var out []model.SerialNumber
	for rows.Next() {
		var sn model.SerialNumber
		if err := rows.Scan(&sn.Serial, &sn.SKU, &sn.LocationCode, &sn.InventoryID, &sn.OrderLineID, &sn.Status, &sn.CreatedAt, &sn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan serial row: %w", err)
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}

func (r *postgresRepository) AnyIdleSerialAt(ctx context.Context, tx pgx.Tx, sku, locationCode string) (*model.SerialNumber, error) {
	query := `
		SELECT serial, sku, location_code, inventory_id, order_line_id, status, created_at, updated_at
		FROM serial_numbers
		WHERE sku = $1 AND location_code = $2 AND status = $3
		LIMIT 1 FOR UPDATE SKIP LOCKED
	`
	var sn model.SerialNumber
	err := tx.QueryRow(ctx, query, sku, locationCode, model.SerialInStock).Scan(
		&sn.Serial, &sn.SKU, &sn.LocationCode, &sn.InventoryID, &sn.OrderLineID, &sn.Status, &sn.CreatedAt, &sn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no idle serial at sku=%s location=%s", model.ErrInvalidSerial, sku, locationCode)
		}
		return nil, fmt.Errorf("failed to find idle serial: %w", err)
	}
	return &sn, nil
}
