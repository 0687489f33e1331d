package service

import (
	"context"
	"fmt"

	"wms-core/internal/domains/location/model"
	"wms-core/internal/domains/location/repository"
	"wms-core/pkg/logger"
)

type LocationService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &LocationService{repo: repo}
}

func (s *LocationService) CreateLocation(ctx context.Context, code string, locType model.LocationType, zone string, x, y int) (*model.Location, error) {
	if !locType.IsValid() {
		return nil, model.ErrInvalidLocationType
	}
	loc := &model.Location{LocationCode: code, Type: locType, Zone: zone, X: x, Y: y}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to create location %s: %w", code, err)
	}
	logger.Info("location created", map[string]interface{}{"location_code": code, "type": string(locType)})
	return loc, nil
}

func (s *LocationService) GetLocation(ctx context.Context, code string) (*model.Location, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *LocationService) ListLocations(ctx context.Context, locType *model.LocationType, zone *string) ([]model.Location, error) {
	return s.repo.List(ctx, locType, zone)
}

func (s *LocationService) SetReplenishmentConfig(ctx context.Context, sku, locationCode string, minQty, maxQty int) (*model.Configuration, error) {
	if minQty < 0 || maxQty < minQty {
		return nil, fmt.Errorf("invalid replenishment bounds: min=%d max=%d", minQty, maxQty)
	}
	if _, err := s.repo.GetByCode(ctx, locationCode); err != nil {
		return nil, err
	}
	cfg := &model.Configuration{SKU: sku, LocationCode: locationCode, MinQty: minQty, MaxQty: maxQty}
	if err := s.repo.UpsertConfiguration(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to set replenishment config for %s@%s: %w", sku, locationCode, err)
	}
	return cfg, nil
}

func (s *LocationService) ListReplenishmentConfigs(ctx context.Context) ([]model.Configuration, error) {
	return s.repo.ListConfigurations(ctx)
}
