package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wms-core/internal/domains/catalog/model"
	journalmodel "wms-core/internal/domains/journal/model"
)

type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) Create(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockCatalogRepo) GetBySKU(ctx context.Context, sku string) (*model.Item, error) {
	args := m.Called(ctx, sku)
	if item, ok := args.Get(0).(*model.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*model.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogRepo) IsReferenced(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *mockCatalogRepo) Delete(ctx context.Context, sku string) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *mockCatalogRepo) BulkSetABCClass(ctx context.Context, assignments map[string]model.ABCClass) error {
	args := m.Called(ctx, assignments)
	return args.Error(0)
}

func (m *mockCatalogRepo) ListSKUs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func TestCreateItem_DefaultsToClassC(t *testing.T) {
	repo := new(mockCatalogRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Item")).Return(nil)

	svc := &CatalogService{repo: repo}
	item, err := svc.CreateItem(context.Background(), "SKU-A", "Widget", nil, false)

	require.NoError(t, err)
	assert.Equal(t, model.ABCClassC, item.ABCClass)
	repo.AssertExpectations(t)
}

func TestDeleteItem_PropagatesReferencedError(t *testing.T) {
	repo := new(mockCatalogRepo)
	repo.On("Delete", mock.Anything, "SKU-A").Return(model.ErrItemReferenced)

	svc := &CatalogService{repo: repo}
	err := svc.DeleteItem(context.Background(), "SKU-A")

	assert.True(t, errors.Is(err, model.ErrItemReferenced))
}

type velocityOnlyReader struct {
	velocity map[string]int
}

func (v *velocityOnlyReader) VelocityByItem(ctx context.Context, since time.Time) (map[string]int, error) {
	return v.velocity, nil
}

func (v *velocityOnlyReader) ListForAudit(ctx context.Context, sku *string, loc *string, start, end *time.Time, limit, offset int) ([]journalmodel.Entry, int, error) {
	return nil, 0, nil
}

func TestClassifyABC_TiersByVelocityDescending(t *testing.T) {
	repo := new(mockCatalogRepo)
	repo.On("ListSKUs", mock.Anything).Return([]string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9", "S10"}, nil)
	repo.On("BulkSetABCClass", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assignments := args.Get(1).(map[string]model.ABCClass)
		assert.Equal(t, model.ABCClassA, assignments["S1"])
		assert.Equal(t, model.ABCClassA, assignments["S2"])
		assert.Equal(t, model.ABCClassB, assignments["S3"])
		assert.Equal(t, model.ABCClassC, assignments["S10"])
	}).Return(nil)

	reader := &velocityOnlyReader{velocity: map[string]int{
		"S1": 100, "S2": 90, "S3": 80, "S4": 70, "S5": 60,
		"S6": 50, "S7": 40, "S8": 30, "S9": 20, "S10": 0,
	}}

	svc := &CatalogService{repo: repo, journal: reader}
	counts, err := svc.ClassifyABC(context.Background(), 30)

	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.ABCClassA])
	assert.Equal(t, 3, counts[model.ABCClassB])
	assert.Equal(t, 5, counts[model.ABCClassC])
	repo.AssertExpectations(t)
}
