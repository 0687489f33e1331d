package repository

import (
	"context"

	"wms-core/internal/domains/location/model"
)

// RepositoryInterface is the persistence contract for locations and the
// replenishment configurations bound to them.
type RepositoryInterface interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByCode(ctx context.Context, code string) (*model.Location, error)
	Exists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, locType *model.LocationType, zone *string) ([]model.Location, error)

	UpsertConfiguration(ctx context.Context, cfg *model.Configuration) error
	ListConfigurations(ctx context.Context) ([]model.Configuration, error)
	GetConfiguration(ctx context.Context, sku, locationCode string) (*model.Configuration, error)
}
