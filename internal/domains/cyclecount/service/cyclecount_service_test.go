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
	"wms-core/internal/domains/cyclecount/model"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type mockCountRepo struct{ mock.Mock }

func (m *mockCountRepo) RandomInventoryRows(ctx context.Context, locationPrefix *string, limit int) ([]invmodel.Inventory, error) {
	args := m.Called(ctx, locationPrefix, limit)
	rows, _ := args.Get(0).([]invmodel.Inventory)
	return rows, args.Error(1)
}

func (m *mockCountRepo) InventoryRowsAtLocation(ctx context.Context, locationCode string) ([]invmodel.Inventory, error) {
	args := m.Called(ctx, locationCode)
	rows, _ := args.Get(0).([]invmodel.Inventory)
	return rows, args.Error(1)
}

func (m *mockCountRepo) CreateSessionTx(ctx context.Context, tx pgx.Tx, reference string, deviceID *string) (*model.Session, error) {
	args := m.Called(ctx, tx, reference, deviceID)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *mockCountRepo) CreateTaskTx(ctx context.Context, tx pgx.Tx, sessionID, inventoryID uuid.UUID, expectedQty int) (*model.Task, error) {
	args := m.Called(ctx, tx, sessionID, inventoryID, expectedQty)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *mockCountRepo) GetTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, tx, taskID)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *mockCountRepo) SubmitCountTx(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, countedQty, variance int) error {
	args := m.Called(ctx, tx, taskID, countedQty, variance)
	return args.Error(0)
}

func (m *mockCountRepo) CountPendingTasks(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *mockCountRepo) CompleteSessionTx(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) error {
	args := m.Called(ctx, tx, sessionID)
	return args.Error(0)
}

func (m *mockCountRepo) GetOrCreateSystemSessionTx(ctx context.Context, tx pgx.Tx) (uuid.UUID, error) {
	args := m.Called(ctx, tx)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *mockCountRepo) RecordSystemDiscrepancyTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, expectedQty int) error {
	args := m.Called(ctx, tx, inventoryID, expectedQty)
	return args.Error(0)
}

type mockInventoryAccess struct{ mock.Mock }

func (m *mockInventoryAccess) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invmodel.Inventory, error) {
	args := m.Called(ctx, tx, id)
	inv, _ := args.Get(0).(*invmodel.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryAccess) AdjustTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*invmodel.Inventory, error) {
	args := m.Called(ctx, tx, inventoryID, newQty, reason, actor)
	inv, _ := args.Get(0).(*invmodel.Inventory)
	return inv, args.Error(1)
}

func TestCreateRandom_SamplesRowsAndOpensSession(t *testing.T) {
	repo := new(mockCountRepo)
	inv := new(mockInventoryAccess)

	row := invmodel.Inventory{ID: uuid.New(), SKU: "SKU-A", Quantity: 12}
	sessionID := uuid.New()

	repo.On("RandomInventoryRows", mock.Anything, (*string)(nil), 5).Return([]invmodel.Inventory{row}, nil)
	repo.On("CreateSessionTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), (*string)(nil)).
		Return(&model.Session{ID: sessionID, Status: model.SessionInProgress}, nil)
	repo.On("CreateTaskTx", mock.Anything, mock.Anything, sessionID, row.ID, 12).
		Return(&model.Task{ID: uuid.New(), SessionID: sessionID, InventoryID: row.ID, ExpectedQty: 12, Status: model.TaskPending}, nil)

	svc := &CycleCountService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	session, tasks, err := svc.CreateRandom(context.Background(), nil, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, sessionID, session.ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, 12, tasks[0].ExpectedQty)
}

func TestCreateRandom_NoEligibleRowsReturnsEmpty(t *testing.T) {
	repo := new(mockCountRepo)
	inv := new(mockInventoryAccess)

	repo.On("RandomInventoryRows", mock.Anything, (*string)(nil), 5).Return([]invmodel.Inventory{}, nil)

	svc := &CycleCountService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	_, _, err := svc.CreateRandom(context.Background(), nil, 5, nil)

	require.Error(t, err)
	assert.True(t, model.IsEmptyError(err))
}

func TestSubmitCount_ZeroVarianceSkipsAdjust(t *testing.T) {
	repo := new(mockCountRepo)
	inv := new(mockInventoryAccess)

	taskID := uuid.New()
	invID := uuid.New()
	sessionID := uuid.New()
	task := &model.Task{ID: taskID, SessionID: sessionID, InventoryID: invID, ExpectedQty: 20, Status: model.TaskPending}
	live := &invmodel.Inventory{ID: invID, SKU: "SKU-A", Quantity: 20}

	repo.On("GetTaskForUpdate", mock.Anything, mock.Anything, taskID).Return(task, nil)
	inv.On("GetByIDForUpdateTx", mock.Anything, mock.Anything, invID).Return(live, nil)
	repo.On("SubmitCountTx", mock.Anything, mock.Anything, taskID, 20, 0).Return(nil)
	repo.On("CountPendingTasks", mock.Anything, mock.Anything, sessionID).Return(0, nil)
	repo.On("CompleteSessionTx", mock.Anything, mock.Anything, sessionID).Return(nil)

	svc := &CycleCountService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	result, err := svc.SubmitCount(context.Background(), taskID, 20, nil)

	require.NoError(t, err)
	assert.Equal(t, model.TaskCounted, result.Status)
	inv.AssertNotCalled(t, "AdjustTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertCalled(t, "CompleteSessionTx", mock.Anything, mock.Anything, sessionID)
}

func TestSubmitCount_VarianceAgainstLiveQtyTriggersAdjust(t *testing.T) {
	repo := new(mockCountRepo)
	inv := new(mockInventoryAccess)

	taskID := uuid.New()
	invID := uuid.New()
	sessionID := uuid.New()
	// Snapshot at task creation was 20, but a legitimate pick since then
	// dropped the live quantity to 15. The physical count of 12 should
	// register -3 against the live row, not -8 against the stale snapshot.
	task := &model.Task{ID: taskID, SessionID: sessionID, InventoryID: invID, ExpectedQty: 20, Status: model.TaskPending}
	live := &invmodel.Inventory{ID: invID, SKU: "SKU-A", Quantity: 15}

	repo.On("GetTaskForUpdate", mock.Anything, mock.Anything, taskID).Return(task, nil)
	inv.On("GetByIDForUpdateTx", mock.Anything, mock.Anything, invID).Return(live, nil)
	repo.On("SubmitCountTx", mock.Anything, mock.Anything, taskID, 12, -3).Return(nil)
	repo.On("CountPendingTasks", mock.Anything, mock.Anything, sessionID).Return(1, nil)
	inv.On("AdjustTx", mock.Anything, mock.Anything, invID, 12, "cycle_count_variance", (*string)(nil)).Return(live, nil)

	svc := &CycleCountService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	result, err := svc.SubmitCount(context.Background(), taskID, 12, nil)

	require.NoError(t, err)
	assert.Equal(t, -3, *result.Variance)
	inv.AssertCalled(t, "AdjustTx", mock.Anything, mock.Anything, invID, 12, "cycle_count_variance", (*string)(nil))
	repo.AssertNotCalled(t, "CompleteSessionTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitCount_RejectsAlreadyCountedTask(t *testing.T) {
	repo := new(mockCountRepo)
	inv := new(mockInventoryAccess)

	taskID := uuid.New()
	counted := 10
	variance := 0
	task := &model.Task{ID: taskID, InventoryID: uuid.New(), ExpectedQty: 10, Status: model.TaskCounted, CountedQty: &counted, Variance: &variance}

	repo.On("GetTaskForUpdate", mock.Anything, mock.Anything, taskID).Return(task, nil)

	svc := &CycleCountService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	_, err := svc.SubmitCount(context.Background(), taskID, 10, nil)

	require.Error(t, err)
	assert.True(t, model.IsInvalidStateError(err))
}
