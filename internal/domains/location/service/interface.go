package service

import (
	"context"

	"wms-core/internal/domains/location/model"
)

type ServiceInterface interface {
	CreateLocation(ctx context.Context, code string, locType model.LocationType, zone string, x, y int) (*model.Location, error)
	GetLocation(ctx context.Context, code string) (*model.Location, error)
	ListLocations(ctx context.Context, locType *model.LocationType, zone *string) ([]model.Location, error)
	SetReplenishmentConfig(ctx context.Context, sku, locationCode string, minQty, maxQty int) (*model.Configuration, error)
	ListReplenishmentConfigs(ctx context.Context) ([]model.Configuration, error)
}
