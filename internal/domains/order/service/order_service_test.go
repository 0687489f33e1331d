package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	invmodel "wms-core/internal/domains/inventory/model"
	journalmodel "wms-core/internal/domains/journal/model"
	"wms-core/internal/domains/order/model"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.Order, error) {
	args := m.Called(ctx, tx, id, expectedVersion, status)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) ListLinesForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *mockOrderRepo) ListLinesForOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderLine, error) {
	args := m.Called(ctx, tx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *mockOrderRepo) GetLineForUpdate(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) (*model.OrderLine, error) {
	args := m.Called(ctx, tx, lineID)
	l, _ := args.Get(0).(*model.OrderLine)
	return l, args.Error(1)
}

func (m *mockOrderRepo) GetLineBySKUForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, sku string) (*model.OrderLine, error) {
	args := m.Called(ctx, tx, orderID, sku)
	l, _ := args.Get(0).(*model.OrderLine)
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

func (m *mockOrderRepo) ListAllocatedNotOnHold(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, orderIDs)
	rows, _ := args.Get(0).([]model.Order)
	return rows, args.Error(1)
}

func (m *mockOrderRepo) ListByIDs(ctx context.Context, orderIDs []uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, orderIDs)
	rows, _ := args.Get(0).([]model.Order)
	return rows, args.Error(1)
}

func (m *mockOrderRepo) ListByBatchReference(ctx context.Context, batchReference string) ([]model.Order, error) {
	args := m.Called(ctx, batchReference)
	rows, _ := args.Get(0).([]model.Order)
	return rows, args.Error(1)
}

func (m *mockOrderRepo) ListByIDsForUpdateTx(ctx context.Context, tx pgx.Tx, orderIDs []uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, tx, orderIDs)
	rows, _ := args.Get(0).([]model.Order)
	return rows, args.Error(1)
}

func (m *mockOrderRepo) AssignBatchReferenceTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, batchReference string) error {
	args := m.Called(ctx, tx, orderID, batchReference)
	return args.Error(0)
}

type mockInventoryAccess struct{ mock.Mock }

func (m *mockInventoryAccess) CandidatesForAllocation(ctx context.Context, tx pgx.Tx, sku string) ([]invmodel.Inventory, error) {
	args := m.Called(ctx, tx, sku)
	rows, _ := args.Get(0).([]invmodel.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryAccess) VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*invmodel.Inventory, error) {
	args := m.Called(ctx, tx, id, expectedVersion, newQty, newReserved)
	inv, _ := args.Get(0).(*invmodel.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryAccess) CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status invmodel.Status) ([]invmodel.Inventory, error) {
	args := m.Called(ctx, sku, locationCode, lot, status)
	rows, _ := args.Get(0).([]invmodel.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryAccess) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invmodel.Inventory, error) {
	args := m.Called(ctx, tx, id)
	inv, _ := args.Get(0).(*invmodel.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryAccess) GetSerialForUpdate(ctx context.Context, tx pgx.Tx, serial string) (*invmodel.SerialNumber, error) {
	args := m.Called(ctx, tx, serial)
	sn, _ := args.Get(0).(*invmodel.SerialNumber)
	return sn, args.Error(1)
}

func (m *mockInventoryAccess) TransitionSerialTx(ctx context.Context, tx pgx.Tx, serial string, status invmodel.SerialStatus, invID *uuid.UUID, locationCode *string, orderLineID *uuid.UUID) error {
	args := m.Called(ctx, tx, serial, status, invID, locationCode, orderLineID)
	return args.Error(0)
}

func (m *mockInventoryAccess) ListSerialsByOrderLineForUpdateTx(ctx context.Context, tx pgx.Tx, orderLineID uuid.UUID) ([]invmodel.SerialNumber, error) {
	args := m.Called(ctx, tx, orderLineID)
	rows, _ := args.Get(0).([]invmodel.SerialNumber)
	return rows, args.Error(1)
}

type mockJournalWriter struct{ mock.Mock }

func (m *mockJournalWriter) Append(ctx context.Context, entry journalmodel.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockJournalWriter) AppendTx(ctx context.Context, tx pgx.Tx, entry journalmodel.Entry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func TestAllocate_FEFOGreedyFullyAllocatesAndAdvancesOrder(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryAccess)
	journal := new(mockJournalWriter)

	orderID := uuid.New()
	lineID := uuid.New()
	order := &model.Order{ID: orderID, OrderNumber: "ORD-1", Status: model.StatusPending, Version: 1}
	line := model.OrderLine{ID: lineID, OrderID: orderID, SKU: "SKU-A", QtyOrdered: 10, QtyAllocated: 0}

	nearExpiry := time.Now().AddDate(0, 0, 2)
	far := time.Now().AddDate(0, 0, 30)
	rowA := invmodel.Inventory{ID: uuid.New(), SKU: "SKU-A", Quantity: 6, ReservedQuantity: 0, Version: 1, ExpiryDate: &nearExpiry}
	rowB := invmodel.Inventory{ID: uuid.New(), SKU: "SKU-A", Quantity: 10, ReservedQuantity: 0, Version: 1, ExpiryDate: &far}

	repo.On("GetByNumber", mock.Anything, "ORD-1").Return(order, nil)
	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, orderID).Return(order, nil)
	repo.On("ListLinesForOrderTx", mock.Anything, mock.Anything, orderID).Return([]model.OrderLine{line}, nil)
	inv.On("CandidatesForAllocation", mock.Anything, mock.Anything, "SKU-A").Return([]invmodel.Inventory{rowA, rowB}, nil)
	inv.On("VersionedUpdateTx", mock.Anything, mock.Anything, rowA.ID, 1, 6, 6).Return(&rowA, nil)
	inv.On("VersionedUpdateTx", mock.Anything, mock.Anything, rowB.ID, 1, 10, 4).Return(&rowB, nil)
	repo.On("UpdateLineAllocationTx", mock.Anything, mock.Anything, lineID, 10).Return(nil)
	repo.On("VersionedUpdateStatusTx", mock.Anything, mock.Anything, orderID, 1, model.StatusAllocated).
		Return(&model.Order{ID: orderID, OrderNumber: "ORD-1", Status: model.StatusAllocated, Version: 2}, nil)

	svc := &OrderService{tx: fakeTxRunner{}, repo: repo, inventory: inv, journal: journal}
	result, err := svc.Allocate(context.Background(), "ORD-1")

	require.NoError(t, err)
	assert.Equal(t, model.StatusAllocated, result.Status)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 10, result.Lines[0].Allocated)
	inv.AssertCalled(t, "VersionedUpdateTx", mock.Anything, mock.Anything, rowA.ID, 1, 6, 6)
}

func TestAllocate_RejectsNonPendingOrder(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryAccess)
	orderID := uuid.New()
	order := &model.Order{ID: orderID, OrderNumber: "ORD-2", Status: model.StatusAllocated, Version: 1}

	repo.On("GetByNumber", mock.Anything, "ORD-2").Return(order, nil)
	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, orderID).Return(order, nil)

	svc := &OrderService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	_, err := svc.Allocate(context.Background(), "ORD-2")

	require.Error(t, err)
	assert.True(t, model.IsInvalidStateError(err))
	repo.AssertNotCalled(t, "ListLinesForOrderTx")
}

func TestPickOrderItem_RejectsOverPick(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryAccess)
	orderID := uuid.New()
	lineID := uuid.New()
	order := &model.Order{ID: orderID, OrderNumber: "ORD-3", Status: model.StatusAllocated, Version: 1}
	line := &model.OrderLine{ID: lineID, OrderID: orderID, SKU: "SKU-A", QtyOrdered: 5, QtyAllocated: 5, QtyPicked: 4}

	repo.On("GetByNumber", mock.Anything, "ORD-3").Return(order, nil)
	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, orderID).Return(order, nil)
	repo.On("GetLineBySKUForUpdate", mock.Anything, mock.Anything, orderID, "SKU-A").Return(line, nil)

	svc := &OrderService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	_, err := svc.PickOrderItem(context.Background(), "ORD-3", "SKU-A", "PICK-A1", 2, nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsOverPickError(err))
}

func TestShortPick_RevertsOrderToPendingAndRaisesCycleCount(t *testing.T) {
	repo := new(mockOrderRepo)
	inv := new(mockInventoryAccess)
	counts := new(mockCycleCountRecorder)
	orderID := uuid.New()
	lineID := uuid.New()
	order := &model.Order{ID: orderID, OrderNumber: "ORD-4", Status: model.StatusAllocated, Version: 3}
	line := &model.OrderLine{ID: lineID, OrderID: orderID, SKU: "SKU-A", QtyOrdered: 10, QtyAllocated: 10, QtyPicked: 0}

	reservedRow := invmodel.Inventory{ID: uuid.New(), SKU: "SKU-A", Quantity: 10, ReservedQuantity: 10, Version: 2}

	repo.On("GetByNumber", mock.Anything, "ORD-4").Return(order, nil)
	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, orderID).Return(order, nil)
	repo.On("GetLineBySKUForUpdate", mock.Anything, mock.Anything, orderID, "SKU-A").Return(line, nil)
	repo.On("UpdateLineAllocationTx", mock.Anything, mock.Anything, lineID, 7).Return(nil)
	inv.On("ListSerialsByOrderLineForUpdateTx", mock.Anything, mock.Anything, lineID).Return([]invmodel.SerialNumber{}, nil)
	location := "PICK-A1"
	inv.On("CandidatesForPick", mock.Anything, "SKU-A", &location, (*string)(nil), invmodel.StatusAvailable).
		Return([]invmodel.Inventory{reservedRow}, nil)
	inv.On("GetByIDForUpdate", mock.Anything, mock.Anything, reservedRow.ID).Return(&reservedRow, nil)
	inv.On("VersionedUpdateTx", mock.Anything, mock.Anything, reservedRow.ID, 2, 10, 7).Return(&reservedRow, nil)
	counts.On("RecordSystemDiscrepancyTx", mock.Anything, mock.Anything, reservedRow.ID, 10).Return(nil)
	repo.On("VersionedUpdateStatusTx", mock.Anything, mock.Anything, orderID, 3, model.StatusPending).
		Return(&model.Order{ID: orderID, OrderNumber: "ORD-4", Status: model.StatusPending}, nil)

	svc := &OrderService{tx: fakeTxRunner{}, repo: repo, inventory: inv, counts: counts}
	result, err := svc.ShortPick(context.Background(), "ORD-4", "SKU-A", location, 3)

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, result.Status)
	counts.AssertExpectations(t)
}

type mockCycleCountRecorder struct{ mock.Mock }

func (m *mockCycleCountRecorder) RecordSystemDiscrepancyTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, expectedQty int) error {
	args := m.Called(ctx, tx, inventoryID, expectedQty)
	return args.Error(0)
}
