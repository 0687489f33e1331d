package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	invmodel "wms-core/internal/domains/inventory/model"
	locmodel "wms-core/internal/domains/location/model"
	ordermodel "wms-core/internal/domains/order/model"
	"wms-core/internal/domains/wave/model"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*ordermodel.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(*ordermodel.Order)
	return o, args.Error(1)
}
func (m *mockOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*ordermodel.Order, error) {
	args := m.Called(ctx, tx, id)
	o, _ := args.Get(0).(*ordermodel.Order)
	return o, args.Error(1)
}
func (m *mockOrderRepo) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status ordermodel.Status) (*ordermodel.Order, error) {
	args := m.Called(ctx, tx, id, expectedVersion, status)
	o, _ := args.Get(0).(*ordermodel.Order)
	return o, args.Error(1)
}
func (m *mockOrderRepo) ListLinesForOrder(ctx context.Context, orderID uuid.UUID) ([]ordermodel.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]ordermodel.OrderLine)
	return lines, args.Error(1)
}
func (m *mockOrderRepo) ListLinesForOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]ordermodel.OrderLine, error) {
	args := m.Called(ctx, tx, orderID)
	lines, _ := args.Get(0).([]ordermodel.OrderLine)
	return lines, args.Error(1)
}
func (m *mockOrderRepo) GetLineForUpdate(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) (*ordermodel.OrderLine, error) {
	args := m.Called(ctx, tx, lineID)
	l, _ := args.Get(0).(*ordermodel.OrderLine)
	return l, args.Error(1)
}
func (m *mockOrderRepo) GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, sku string) (*ordermodel.OrderLine, error) {
	args := m.Called(ctx, tx, orderID, sku)
	l, _ := args.Get(0).(*ordermodel.OrderLine)
	return l, args.Error(1)
}
func (m *mockOrderRepo) UpdateLineAllocationTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyAllocated int) error {
	args := m.Called(ctx, tx, lineID, qtyAllocated)
	return args.Error(0)
}
func (m *mockOrderRepo) UpdateLinePickedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyPicked int) error {
	args := m.Called(ctx, tx, lineID, qtyPicked)
	return args.Error(0)
}
func (m *mockOrderRepo) ListAllocatedNotOnHold(ctx context.Context, orderIDs []uuid.UUID) ([]ordermodel.Order, error) {
	args := m.Called(ctx, orderIDs)
	orders, _ := args.Get(0).([]ordermodel.Order)
	return orders, args.Error(1)
}
func (m *mockOrderRepo) ListByIDs(ctx context.Context, orderIDs []uuid.UUID) ([]ordermodel.Order, error) {
	args := m.Called(ctx, orderIDs)
	orders, _ := args.Get(0).([]ordermodel.Order)
	return orders, args.Error(1)
}
func (m *mockOrderRepo) ListByBatchReference(ctx context.Context, batchReference string) ([]ordermodel.Order, error) {
	args := m.Called(ctx, batchReference)
	orders, _ := args.Get(0).([]ordermodel.Order)
	return orders, args.Error(1)
}
func (m *mockOrderRepo) ListByIDsForUpdateTx(ctx context.Context, tx pgx.Tx, orderIDs []uuid.UUID) ([]ordermodel.Order, error) {
	args := m.Called(ctx, tx, orderIDs)
	orders, _ := args.Get(0).([]ordermodel.Order)
	return orders, args.Error(1)
}
func (m *mockOrderRepo) AssignBatchReferenceTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, batchReference string) error {
	args := m.Called(ctx, tx, orderID, batchReference)
	return args.Error(0)
}

type mockInventoryCandidates struct{ mock.Mock }

func (m *mockInventoryCandidates) CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status invmodel.Status) ([]invmodel.Inventory, error) {
	args := m.Called(ctx, sku, locationCode, lot, status)
	rows, _ := args.Get(0).([]invmodel.Inventory)
	return rows, args.Error(1)
}

type mockLocationLookup struct{ mock.Mock }

func (m *mockLocationLookup) GetLocation(ctx context.Context, code string) (*locmodel.Location, error) {
	args := m.Called(ctx, code)
	l, _ := args.Get(0).(*locmodel.Location)
	return l, args.Error(1)
}

type mockOrderPicker struct{ mock.Mock }

func (m *mockOrderPicker) PickOrderItem(ctx context.Context, orderNumber, sku, locationCode string, qty int, lot *string, serial *string) (*ordermodel.PickResult, error) {
	args := m.Called(ctx, orderNumber, sku, locationCode, qty, lot, serial)
	r, _ := args.Get(0).(*ordermodel.PickResult)
	return r, args.Error(1)
}

func TestWavePlan_AggregatesDemandAndSortsByXY(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryCandidates)
	loc := new(mockLocationLookup)
	picker := new(mockOrderPicker)

	order1ID, order2ID := uuid.New(), uuid.New()
	line1ID, line2ID := uuid.New(), uuid.New()
	orderIDs := []uuid.UUID{order1ID, order2ID}

	repo.On("ListAllocatedNotOnHold", mock.Anything, orderIDs).Return([]ordermodel.Order{
		{ID: order1ID, OrderNumber: "ORD-1", Status: ordermodel.StatusAllocated},
		{ID: order2ID, OrderNumber: "ORD-2", Status: ordermodel.StatusAllocated},
	}, nil)
	repo.On("ListLinesForOrder", mock.Anything, order1ID).Return([]ordermodel.OrderLine{
		{ID: line1ID, OrderID: order1ID, SKU: "SKU-A", QtyAllocated: 5, QtyPicked: 0},
	}, nil)
	repo.On("ListLinesForOrder", mock.Anything, order2ID).Return([]ordermodel.OrderLine{
		{ID: line2ID, OrderID: order2ID, SKU: "SKU-A", QtyAllocated: 3, QtyPicked: 1},
	}, nil)
	inv.On("CandidatesForPick", mock.Anything, "SKU-A", (*string)(nil), (*string)(nil), invmodel.StatusAvailable).
		Return([]invmodel.Inventory{{SKU: "SKU-A", LocationCode: "P1"}}, nil)
	loc.On("GetLocation", mock.Anything, "P1").Return(&locmodel.Location{LocationCode: "P1", X: 3, Y: 1}, nil)

	svc := &WaveService{tx: fakeTxRunner{}, orders: repo, inventory: inv, locations: loc, picker: picker}
	items, err := svc.WavePlan(context.Background(), orderIDs)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-A", items[0].SKU)
	assert.Equal(t, 7, items[0].TotalQty)
	require.Len(t, items[0].Contributors, 2)
}

func TestCreateClusterBatch_RejectsWhenAnyOrderIneligible(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryCandidates)
	loc := new(mockLocationLookup)
	picker := new(mockOrderPicker)

	order1ID, order2ID := uuid.New(), uuid.New()
	orderIDs := []uuid.UUID{order1ID, order2ID}

	repo.On("ListByIDsForUpdateTx", mock.Anything, mock.Anything, orderIDs).Return([]ordermodel.Order{
		{ID: order1ID, OrderNumber: "ORD-1", Status: ordermodel.StatusAllocated},
		{ID: order2ID, OrderNumber: "ORD-2", Status: ordermodel.StatusPending},
	}, nil)

	svc := &WaveService{tx: fakeTxRunner{}, orders: repo, inventory: inv, locations: loc, picker: picker}
	_, err := svc.CreateClusterBatch(context.Background(), orderIDs, "picker-1")

	require.Error(t, err)
	assert.True(t, model.IsNotEligibleError(err))
	repo.AssertNotCalled(t, "AssignBatchReferenceTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateClusterBatch_LinksEligibleOrders(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryCandidates)
	loc := new(mockLocationLookup)
	picker := new(mockOrderPicker)

	order1ID, order2ID := uuid.New(), uuid.New()
	orderIDs := []uuid.UUID{order1ID, order2ID}

	repo.On("ListByIDsForUpdateTx", mock.Anything, mock.Anything, orderIDs).Return([]ordermodel.Order{
		{ID: order1ID, OrderNumber: "ORD-1", Status: ordermodel.StatusAllocated},
		{ID: order2ID, OrderNumber: "ORD-2", Status: ordermodel.StatusAllocated},
	}, nil)
	repo.On("AssignBatchReferenceTx", mock.Anything, mock.Anything, order1ID, mock.AnythingOfType("string")).Return(nil)
	repo.On("AssignBatchReferenceTx", mock.Anything, mock.Anything, order2ID, mock.AnythingOfType("string")).Return(nil)

	svc := &WaveService{tx: fakeTxRunner{}, orders: repo, inventory: inv, locations: loc, picker: picker}
	batch, err := svc.CreateClusterBatch(context.Background(), orderIDs, "picker-1")

	require.NoError(t, err)
	assert.Equal(t, "picker-1", batch.Picker)
	assert.NotEmpty(t, batch.BatchReference)
}

func TestGetClusterTasks_SplitsBinAcrossContributorsFirstCome(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryCandidates)
	loc := new(mockLocationLookup)
	picker := new(mockOrderPicker)

	order1ID, order2ID := uuid.New(), uuid.New()
	line1ID, line2ID := uuid.New(), uuid.New()

	repo.On("ListByBatchReference", mock.Anything, "BATCH-1").Return([]ordermodel.Order{
		{ID: order1ID, OrderNumber: "ORD-1", Status: ordermodel.StatusAllocated},
		{ID: order2ID, OrderNumber: "ORD-2", Status: ordermodel.StatusAllocated},
	}, nil)
	repo.On("ListLinesForOrder", mock.Anything, order1ID).Return([]ordermodel.OrderLine{
		{ID: line1ID, OrderID: order1ID, SKU: "SKU-A", QtyAllocated: 6, QtyPicked: 0},
	}, nil)
	repo.On("ListLinesForOrder", mock.Anything, order2ID).Return([]ordermodel.OrderLine{
		{ID: line2ID, OrderID: order2ID, SKU: "SKU-A", QtyAllocated: 4, QtyPicked: 0},
	}, nil)
	inv.On("CandidatesForPick", mock.Anything, "SKU-A", (*string)(nil), (*string)(nil), invmodel.StatusAvailable).
		Return([]invmodel.Inventory{
			{SKU: "SKU-A", LocationCode: "B1", Quantity: 8},
			{SKU: "SKU-A", LocationCode: "B2", Quantity: 2},
		}, nil)

	svc := &WaveService{tx: fakeTxRunner{}, orders: repo, inventory: inv, locations: loc, picker: picker}
	tasks, err := svc.GetClusterTasks(context.Background(), "BATCH-1")

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "B1", tasks[0].LocationCode)
	assert.Equal(t, 8, tasks[0].TotalQty)
	require.Len(t, tasks[0].DistributeTo, 2)
	assert.Equal(t, 6, tasks[0].DistributeTo[0].Qty)
	assert.Equal(t, 2, tasks[0].DistributeTo[1].Qty)
	assert.Equal(t, "B2", tasks[1].LocationCode)
	assert.Equal(t, 2, tasks[1].TotalQty)
	require.Len(t, tasks[1].DistributeTo, 1)
	assert.Equal(t, 2, tasks[1].DistributeTo[0].Qty)
}

func TestCompleteWave_PicksFirstAvailableBinPerLine(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryCandidates)
	loc := new(mockLocationLookup)
	picker := new(mockOrderPicker)

	orderID := uuid.New()
	lineID := uuid.New()
	orderIDs := []uuid.UUID{orderID}

	repo.On("ListByIDs", mock.Anything, orderIDs).Return([]ordermodel.Order{
		{ID: orderID, OrderNumber: "ORD-1", Status: ordermodel.StatusAllocated},
	}, nil)
	repo.On("ListLinesForOrder", mock.Anything, orderID).Return([]ordermodel.OrderLine{
		{ID: lineID, OrderID: orderID, SKU: "SKU-A", QtyAllocated: 5, QtyPicked: 0},
	}, nil)
	inv.On("CandidatesForPick", mock.Anything, "SKU-A", (*string)(nil), (*string)(nil), invmodel.StatusAvailable).
		Return([]invmodel.Inventory{{SKU: "SKU-A", LocationCode: "P1", Quantity: 5}}, nil)
	picker.On("PickOrderItem", mock.Anything, "ORD-1", "SKU-A", "P1", 5, (*string)(nil), (*string)(nil)).
		Return(&ordermodel.PickResult{LineID: lineID, QtyPicked: 5, Status: ordermodel.StatusPicked}, nil)

	svc := &WaveService{tx: fakeTxRunner{}, orders: repo, inventory: inv, locations: loc, picker: picker}
	outcomes, err := svc.CompleteWave(context.Background(), orderIDs, nil)

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "SKU-A", outcomes[0].SKU)
	assert.Equal(t, 5, outcomes[0].QtyPicked)
}
