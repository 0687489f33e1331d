package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wms-core/internal/domains/location/model"
)

type mockLocationRepo struct{ mock.Mock }

func (m *mockLocationRepo) Create(ctx context.Context, loc *model.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *mockLocationRepo) GetByCode(ctx context.Context, code string) (*model.Location, error) {
	args := m.Called(ctx, code)
	if loc, ok := args.Get(0).(*model.Location); ok {
		return loc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLocationRepo) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocationRepo) List(ctx context.Context, locType *model.LocationType, zone *string) ([]model.Location, error) {
	args := m.Called(ctx, locType, zone)
	return args.Get(0).([]model.Location), args.Error(1)
}

func (m *mockLocationRepo) UpsertConfiguration(ctx context.Context, cfg *model.Configuration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *mockLocationRepo) ListConfigurations(ctx context.Context) ([]model.Configuration, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Configuration), args.Error(1)
}

func (m *mockLocationRepo) GetConfiguration(ctx context.Context, sku, locationCode string) (*model.Configuration, error) {
	args := m.Called(ctx, sku, locationCode)
	if cfg, ok := args.Get(0).(*model.Configuration); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateLocation_RejectsInvalidType(t *testing.T) {
	repo := new(mockLocationRepo)
	svc := &LocationService{repo: repo}

	_, err := svc.CreateLocation(context.Background(), "PICK-A1", model.LocationType("BOGUS"), "Z1", 0, 0)

	assert.ErrorIs(t, err, model.ErrInvalidLocationType)
	repo.AssertNotCalled(t, "Create")
}

func TestSetReplenishmentConfig_RejectsInvertedBounds(t *testing.T) {
	repo := new(mockLocationRepo)
	svc := &LocationService{repo: repo}

	_, err := svc.SetReplenishmentConfig(context.Background(), "SKU-A", "PICK-A1", 10, 5)

	require.Error(t, err)
	repo.AssertNotCalled(t, "GetByCode")
}

func TestSetReplenishmentConfig_Upserts(t *testing.T) {
	repo := new(mockLocationRepo)
	repo.On("GetByCode", mock.Anything, "PICK-A1").Return(&model.Location{LocationCode: "PICK-A1"}, nil)
	repo.On("UpsertConfiguration", mock.Anything, mock.AnythingOfType("*model.Configuration")).Return(nil)

	svc := &LocationService{repo: repo}
	cfg, err := svc.SetReplenishmentConfig(context.Background(), "SKU-A", "PICK-A1", 5, 20)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MinQty)
	assert.Equal(t, 20, cfg.MaxQty)
	repo.AssertExpectations(t)
}
