package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wms-core/internal/domains/location/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, loc *model.Location) error {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	query := `
		INSERT INTO locations (id, location_code, type, zone, x, y)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, loc.ID, loc.LocationCode, loc.Type, loc.Zone, loc.X, loc.Y).
		Scan(&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrLocationExists
		}
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Location, error) {
	query := `
		SELECT id, location_code, type, zone, x, y, created_at, updated_at
		FROM locations WHERE location_code = $1
	`
	var loc model.Location
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&loc.ID, &loc.LocationCode, &loc.Type, &loc.Zone, &loc.X, &loc.Y, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewLocationNotFoundError(code)
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &loc, nil
}

func (r *postgresRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM locations WHERE location_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check location existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context, locType *model.LocationType, zone *string) ([]model.Location, error) {
	query := `SELECT id, location_code, type, zone, x, y, created_at, updated_at FROM locations WHERE 1=1`
	args := []interface{}{}
	n := 1
	if locType != nil {
		query += fmt.Sprintf(" AND type = $%d", n)
		args = append(args, *locType)
		n++
	}
	if zone != nil {
		query += fmt.Sprintf(" AND zone = $%d", n)
		args = append(args, *zone)
		n++
	}
	query += " ORDER BY x, y"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.LocationCode, &loc.Type, &loc.Zone, &loc.X, &loc.Y, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// UpsertConfiguration inserts or updates the replenishment min/max bounds
// for a (sku, location_code) pair, keyed on that pair's unique constraint.
func (r *postgresRepository) UpsertConfiguration(ctx context.Context, cfg *model.Configuration) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	query := `
		INSERT INTO location_configurations (id, sku, location_code, min_qty, max_qty)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku, location_code) DO UPDATE
			SET min_qty = EXCLUDED.min_qty, max_qty = EXCLUDED.max_qty, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, cfg.ID, cfg.SKU, cfg.LocationCode, cfg.MinQty, cfg.MaxQty).
		Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
}

func (r *postgresRepository) ListConfigurations(ctx context.Context) ([]model.Configuration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sku, location_code, min_qty, max_qty, created_at, updated_at
		FROM location_configurations ORDER BY sku
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list location configurations: %w", err)
	}
	defer rows.Close()

	var configs []model.Configuration
	for rows.Next() {
		var c model.Configuration
		if err := rows.Scan(&c.ID, &c.SKU, &c.LocationCode, &c.MinQty, &c.MaxQty, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location configuration: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *postgresRepository) GetConfiguration(ctx context.Context, sku, locationCode string) (*model.Configuration, error) {
	var c model.Configuration
	err := r.pool.QueryRow(ctx, `
		SELECT id, sku, location_code, min_qty, max_qty, created_at, updated_at
		FROM location_configurations WHERE sku = $1 AND location_code = $2
	`, sku, locationCode).Scan(&c.ID, &c.SKU, &c.LocationCode, &c.MinQty, &c.MaxQty, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrConfigurationNotFound
		}
		return nil, fmt.Errorf("failed to get location configuration: %w", err)
	}
	return &c, nil
}
