package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/catalog/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.ABCClass == "" {
		item.ABCClass = model.ABCClassC
	}
	query := `
		INSERT INTO items (id, sku, name, attributes, is_serialized, abc_class)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, item.ID, item.SKU, item.Name, item.Attributes, item.IsSerialized, item.ABCClass).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrItemExists
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetBySKU(ctx context.Context, sku string) (*model.Item, error) {
	query := `
		SELECT id, sku, name, attributes, is_serialized, abc_class, created_at, updated_at
		FROM items WHERE sku = $1
	`
	var item model.Item
	err := r.pool.QueryRow(ctx, query, sku).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Attributes, &item.IsSerialized, &item.ABCClass,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewItemNotFoundError(sku)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `
		SELECT id, sku, name, attributes, is_serialized, abc_class, created_at, updated_at
		FROM items WHERE id = $1
	`
	var item model.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Attributes, &item.IsSerialized, &item.ABCClass,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewItemNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) IsReferenced(ctx context.Context, sku string) (bool, error) {
	var referenced bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM inventory i JOIN items it ON it.id = i.item_id WHERE it.sku = $1
			UNION ALL
			SELECT 1 FROM order_lines ol JOIN items it ON it.id = ol.item_id WHERE it.sku = $1
		)
	`, sku).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("failed to check item references: %w", err)
	}
	return referenced, nil
}

func (r *postgresRepository) Delete(ctx context.Context, sku string) error {
	referenced, err := r.IsReferenced(ctx, sku)
	if err != nil {
		return err
	}
	if referenced {
		return model.ErrItemReferenced
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE sku = $1`, sku)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewItemNotFoundError(sku)
	}
	return nil
}

// BulkSetABCClass applies the ABC Classifier's per-SKU tier assignment in
// one statement per tier, grouping SKUs by class to avoid one round-trip
// per item.
func (r *postgresRepository) BulkSetABCClass(ctx context.Context, assignments map[string]model.ABCClass) error {
	byClass := make(map[model.ABCClass][]string)
	for sku, class := range assignments {
		byClass[class] = append(byClass[class], sku)
	}
	for class, skus := range byClass {
		if _, err := r.pool.Exec(ctx, `UPDATE items SET abc_class = $1, updated_at = NOW() WHERE sku = ANY($2)`, class, skus); err != nil {
			return fmt.Errorf("failed to bulk update abc_class for %s: %w", class, err)
		}
	}
	return nil
}

func (r *postgresRepository) ListSKUs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT sku FROM items ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	defer rows.Close()

	var skus []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("failed to scan sku: %w", err)
		}
		skus = append(skus, sku)
	}
	return skus, rows.Err()
}
