package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/journal/model"
)

// Writer is the contract every mutating domain service depends on to emit
// exactly one journal row per logical stock change.
type Writer interface {
	Append(ctx context.Context, entry model.Entry) error
	AppendTx(ctx context.Context, tx pgx.Tx, entry model.Entry) error
}

// Reader serves the velocity queries the ABC classifier runs.
type Reader interface {
	VelocityByItem(ctx context.Context, since time.Time) (map[string]int, error)
	ListForAudit(ctx context.Context, sku *string, loc *string, start, end *time.Time, limit, offset int) ([]model.Entry, int, error)
}

type Repository interface {
	Writer
	Reader
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const insertJournal = `
	INSERT INTO transaction_log (
		id, action, sku_snapshot, location_snapshot, quantity_change, lot_snapshot, actor, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Append writes a standalone journal row outside of any caller transaction.
// Most callers should prefer AppendTx so the journal entry commits or rolls
// back atomically with the stock mutation it documents.
func (r *postgresRepository) Append(ctx context.Context, entry model.Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := r.pool.Exec(ctx, insertJournal,
		entry.ID, entry.Action, entry.SKUSnapshot, entry.LocationSnapshot,
		entry.QuantityChange, entry.LotSnapshot, entry.Actor, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// AppendTx writes the journal row using the caller's open transaction. This
// is the path every Inventory Store mutator uses: the row lock, the stock
// mutation, and this insert all live inside the same pgx.Tx.
func (r *postgresRepository) AppendTx(ctx context.Context, tx pgx.Tx, entry model.Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := tx.Exec(ctx, insertJournal,
		entry.ID, entry.Action, entry.SKUSnapshot, entry.LocationSnapshot,
		entry.QuantityChange, entry.LotSnapshot, entry.Actor, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// VelocityByItem sums -quantity_change for PICK/PACK/SHIP rows over the
// trailing window, keyed by sku_snapshot. Used by the ABC classifier.
func (r *postgresRepository) VelocityByItem(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sku_snapshot, COALESCE(SUM(-quantity_change), 0) AS velocity
		FROM transaction_log
		WHERE action IN ('PICK', 'PACK', 'SHIP')
		  AND created_at >= $1
		GROUP BY sku_snapshot
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query velocity: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var sku string
		var velocity int
		if err := rows.Scan(&sku, &velocity); err != nil {
			return nil, fmt.Errorf("failed to scan velocity row: %w", err)
		}
		out[sku] = velocity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating velocity rows: %w", err)
	}
	return out, nil
}

// ListForAudit supports the operator-productivity / audit-log surface. The
// core treats it as read-only reporting over the append-only table.
func (r *postgresRepository) ListForAudit(ctx context.Context, sku *string, loc *string, start, end *time.Time, limit, offset int) ([]model.Entry, int, error) {
	query := `
		SELECT id, created_at, action, sku_snapshot, location_snapshot, quantity_change, lot_snapshot, actor
		FROM transaction_log
		WHERE 1=1
	`
	count := `SELECT COUNT(*) FROM transaction_log WHERE 1=1`
	args := []interface{}{}
	n := 1
	add := func(clause string, val interface{}) {
		query += fmt.Sprintf(" AND %s $%d", clause, n)
		count += fmt.Sprintf(" AND %s $%d", clause, n)
		args = append(args, val)
		n++
	}
	if sku != nil {
		add("sku_snapshot =", *sku)
	}
	if loc != nil {
		add("location_snapshot =", *loc)
	}
	if start != nil {
		add("created_at >=", *start)
	}
	if end != nil {
		add("created_at <=", *end)
	}

	var total int
	if err := r.pool.QueryRow(ctx, count, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Entry, 0, limit)
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.SKUSnapshot, &e.LocationSnapshot, &e.QuantityChange, &e.LotSnapshot, &e.Actor); err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
