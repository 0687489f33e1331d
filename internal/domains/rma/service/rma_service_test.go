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
	invservice "wms-core/internal/domains/inventory/service"
	"wms-core/internal/domains/rma/model"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type mockRMARepo struct{ mock.Mock }

func (m *mockRMARepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, rmaNumber string) (*model.RMA, error) {
	args := m.Called(ctx, tx, rmaNumber)
	rma, _ := args.Get(0).(*model.RMA)
	return rma, args.Error(1)
}

func (m *mockRMARepo) ListLinesForRMATx(ctx context.Context, tx pgx.Tx, rmaID uuid.UUID) ([]model.Line, error) {
	args := m.Called(ctx, tx, rmaID)
	lines, _ := args.Get(0).([]model.Line)
	return lines, args.Error(1)
}

func (m *mockRMARepo) UpdateLineReceivedTx(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, qtyReceived int) error {
	args := m.Called(ctx, tx, lineID, qtyReceived)
	return args.Error(0)
}

func (m *mockRMARepo) VersionedUpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, status model.Status) (*model.RMA, error) {
	args := m.Called(ctx, tx, id, expectedVersion, status)
	rma, _ := args.Get(0).(*model.RMA)
	return rma, args.Error(1)
}

type mockInventoryReceiver struct{ mock.Mock }

func (m *mockInventoryReceiver) ReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status invmodel.Status, serials []string, actor *string) (*invservice.ReceiveResult, error) {
	args := m.Called(ctx, tx, sku, locationCode, qty, lot, expiry, status, serials, actor)
	r, _ := args.Get(0).(*invservice.ReceiveResult)
	return r, args.Error(1)
}

func TestProcessReturnReceipt_RestocksQuarantineAndCompletesRMA(t *testing.T) {
	repo := new(mockRMARepo)
	inv := new(mockInventoryReceiver)

	rmaID := uuid.New()
	lineID := uuid.New()
	rma := &model.RMA{ID: rmaID, RMANumber: "RMA-1", Status: model.StatusPending, Version: 1}
	line := model.Line{ID: lineID, RMAID: rmaID, SKU: "SKU-A", QtyToReturn: 3}

	repo.On("GetByNumberForUpdate", mock.Anything, mock.Anything, "RMA-1").Return(rma, nil)
	repo.On("ListLinesForRMATx", mock.Anything, mock.Anything, rmaID).Return([]model.Line{line}, nil)
	inv.On("ReceiveTx", mock.Anything, mock.Anything, "SKU-A", model.DefaultIntakeLocation, 3, (*string)(nil), (*time.Time)(nil), invmodel.StatusQuarantine, []string(nil), (*string)(nil)).
		Return(&invservice.ReceiveResult{ID: uuid.New(), NewQty: 3}, nil)
	repo.On("UpdateLineReceivedTx", mock.Anything, mock.Anything, lineID, 3).Return(nil)
	repo.On("VersionedUpdateStatusTx", mock.Anything, mock.Anything, rmaID, 1, model.StatusReceived).
		Return(&model.RMA{ID: rmaID, RMANumber: "RMA-1", Status: model.StatusReceived, Version: 2}, nil)

	svc := &RMAService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	result, err := svc.ProcessReturnReceipt(context.Background(), "RMA-1", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, result.Status)
	assert.Equal(t, model.DefaultIntakeLocation, result.Location)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 3, result.Lines[0].QtyReceived)
}

func TestProcessReturnReceipt_AlreadyReceivedIsIdempotentRejection(t *testing.T) {
	repo := new(mockRMARepo)
	inv := new(mockInventoryReceiver)

	rmaID := uuid.New()
	rma := &model.RMA{ID: rmaID, RMANumber: "RMA-2", Status: model.StatusReceived, Version: 2}

	repo.On("GetByNumberForUpdate", mock.Anything, mock.Anything, "RMA-2").Return(rma, nil)

	svc := &RMAService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	_, err := svc.ProcessReturnReceipt(context.Background(), "RMA-2", nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsAlreadyProcessedError(err))
	inv.AssertNotCalled(t, "ReceiveTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListLinesForRMATx")
}

func TestProcessReturnReceipt_CustomIntakeLocation(t *testing.T) {
	repo := new(mockRMARepo)
	inv := new(mockInventoryReceiver)

	rmaID := uuid.New()
	lineID := uuid.New()
	rma := &model.RMA{ID: rmaID, RMANumber: "RMA-3", Status: model.StatusPending, Version: 1}
	line := model.Line{ID: lineID, RMAID: rmaID, SKU: "SKU-B", QtyToReturn: 1}
	custom := "QC-BENCH"

	repo.On("GetByNumberForUpdate", mock.Anything, mock.Anything, "RMA-3").Return(rma, nil)
	repo.On("ListLinesForRMATx", mock.Anything, mock.Anything, rmaID).Return([]model.Line{line}, nil)
	inv.On("ReceiveTx", mock.Anything, mock.Anything, "SKU-B", custom, 1, (*string)(nil), (*time.Time)(nil), invmodel.StatusQuarantine, []string(nil), (*string)(nil)).
		Return(&invservice.ReceiveResult{ID: uuid.New(), NewQty: 1}, nil)
	repo.On("UpdateLineReceivedTx", mock.Anything, mock.Anything, lineID, 1).Return(nil)
	repo.On("VersionedUpdateStatusTx", mock.Anything, mock.Anything, rmaID, 1, model.StatusReceived).
		Return(&model.RMA{ID: rmaID, RMANumber: "RMA-3", Status: model.StatusReceived, Version: 2}, nil)

	svc := &RMAService{tx: fakeTxRunner{}, repo: repo, inventory: inv}
	result, err := svc.ProcessReturnReceipt(context.Background(), "RMA-3", &custom, nil)

	require.NoError(t, err)
	assert.Equal(t, custom, result.Location)
}
