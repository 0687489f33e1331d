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

	catalogmodel "wms-core/internal/domains/catalog/model"
	"wms-core/internal/domains/inventory/model"
	journalmodel "wms-core/internal/domains/journal/model"
)

type mockInventoryRepo struct{ mock.Mock }

func (m *mockInventoryRepo) GetByKey(ctx context.Context, sku, locationCode string, lot *string, status model.Status) (*model.Inventory, error) {
	args := m.Called(ctx, sku, locationCode, lot, status)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, error) {
	args := m.Called(ctx, tx, id)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryRepo) UpsertReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, lot *string, status model.Status, expiry *time.Time, qty int) (*model.Inventory, error) {
	args := m.Called(ctx, tx, sku, locationCode, lot, status, expiry, qty)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryRepo) VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*model.Inventory, error) {
	args := m.Called(ctx, tx, id, expectedVersion, newQty, newReserved)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *mockInventoryRepo) CandidatesForAllocation(ctx context.Context, tx pgx.Tx, sku string) ([]model.Inventory, error) {
	args := m.Called(ctx, tx, sku)
	rows, _ := args.Get(0).([]model.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryRepo) CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status model.Status) ([]model.Inventory, error) {
	args := m.Called(ctx, sku, locationCode, lot, status)
	rows, _ := args.Get(0).([]model.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryRepo) ListForSKU(ctx context.Context, sku string) ([]model.Inventory, error) {
	args := m.Called(ctx, sku)
	rows, _ := args.Get(0).([]model.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryRepo) ListByLocation(ctx context.Context, locationCode string) ([]model.Inventory, error) {
	args := m.Called(ctx, locationCode)
	rows, _ := args.Get(0).([]model.Inventory)
	return rows, args.Error(1)
}

func (m *mockInventoryRepo) RegisterSerialsTx(ctx context.Context, tx pgx.Tx, invID uuid.UUID, sku, locationCode string, serials []string) error {
	args := m.Called(ctx, tx, invID, sku, locationCode, serials)
	return args.Error(0)
}

func (m *mockInventoryRepo) GetSerialForUpdate(ctx context.Context, tx pgx.Tx, serial string) (*model.SerialNumber, error) {
	args := m.Called(ctx, tx, serial)
	sn, _ := args.Get(0).(*model.SerialNumber)
	return sn, args.Error(1)
}

func (m *mockInventoryRepo) TransitionSerialTx(ctx context.Context, tx pgx.Tx, serial string, status model.SerialStatus, invID *uuid.UUID, locationCode *string, orderLineID *uuid.UUID) error {
	args := m.Called(ctx, tx, serial, status, invID, locationCode, orderLineID)
	return args.Error(0)
}

func (m *mockInventoryRepo) AnyIdleSerialAt(ctx context.Context, tx pgx.Tx, sku, locationCode string) (*model.SerialNumber, error) {
	args := m.Called(ctx, tx, sku, locationCode)
	sn, _ := args.Get(0).(*model.SerialNumber)
	return sn, args.Error(1)
}

func (m *mockInventoryRepo) ListSerialsByOrderLineForUpdateTx(ctx context.Context, tx pgx.Tx, orderLineID uuid.UUID) ([]model.SerialNumber, error) {
	args := m.Called(ctx, tx, orderLineID)
	rows, _ := args.Get(0).([]model.SerialNumber)
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

type mockLocationChecker struct{ mock.Mock }

func (m *mockLocationChecker) Exists(ctx context.Context, locationCode string) (bool, error) {
	args := m.Called(ctx, locationCode)
	return args.Bool(0), args.Error(1)
}

type mockItemChecker struct{ mock.Mock }

func (m *mockItemChecker) GetBySKU(ctx context.Context, sku string) (*catalogmodel.Item, error) {
	args := m.Called(ctx, sku)
	item, _ := args.Get(0).(*catalogmodel.Item)
	return item, args.Error(1)
}

// fakeTxRunner runs the callback directly against a nil pgx.Tx, letting
// these tests exercise the service's retry/branching logic without a live
// Postgres connection. The mocked repository calls below never dereference
// the tx argument.
type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func TestPick_ConflictExhaustsRetriesThenSurfacesConflict(t *testing.T) {
	repo := new(mockInventoryRepo)
	id := uuid.New()
	row := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 10, ReservedQuantity: 0, Version: 1}

	// Every attempt reads the same stale row and every VersionedUpdateTx
	// call reports a conflict (nil, nil) — the version never advances in
	// this stub. After 3 attempts, Pick must surface a Conflict error
	// without having mutated anything.
	repo.On("GetByID", mock.Anything, id).Return(row, nil)
	repo.On("VersionedUpdateTx", mock.Anything, mock.Anything, id, 1, 7, 0).Return(nil, nil)

	svc := &InventoryService{repo: repo, tx: fakeTxRunner{}}
	_, err := svc.Pick(context.Background(), id, 3, nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsConflictError(err))
	repo.AssertNumberOfCalls(t, "VersionedUpdateTx", maxVersionedUpdateRetries)
}

func TestPick_NoStockWhenQuantityBelowRequested(t *testing.T) {
	repo := new(mockInventoryRepo)
	id := uuid.New()
	row := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 2, Version: 1}
	repo.On("GetByID", mock.Anything, id).Return(row, nil)

	svc := &InventoryService{repo: repo}
	_, err := svc.Pick(context.Background(), id, 5, nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsNoStockError(err))
	repo.AssertNotCalled(t, "VersionedUpdateTx")
}

func TestReceive_RejectsSerialCountMismatch(t *testing.T) {
	repo := new(mockInventoryRepo)
	locations := new(mockLocationChecker)
	items := new(mockItemChecker)
	locations.On("Exists", mock.Anything, "PICK-A1").Return(true, nil)
	items.On("GetBySKU", mock.Anything, "SKU-A").Return(&catalogmodel.Item{SKU: "SKU-A"}, nil)

	svc := &InventoryService{repo: repo, locations: locations, items: items}
	_, err := svc.Receive(context.Background(), "SKU-A", "PICK-A1", 3, nil, nil, model.StatusAvailable, []string{"SN-1", "SN-2"}, nil)

	require.Error(t, err)
	assert.True(t, model.IsSerialError(err))
	repo.AssertNotCalled(t, "UpsertReceiveTx")
}

func TestReceive_RejectsUnknownLocation(t *testing.T) {
	repo := new(mockInventoryRepo)
	locations := new(mockLocationChecker)
	locations.On("Exists", mock.Anything, "NOPE").Return(false, nil)

	svc := &InventoryService{repo: repo, locations: locations}
	_, err := svc.Receive(context.Background(), "SKU-A", "NOPE", 3, nil, nil, model.StatusAvailable, nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsNotFoundError(err))
}

func TestReceive_RejectsSerializedItemWithNoSerials(t *testing.T) {
	repo := new(mockInventoryRepo)
	locations := new(mockLocationChecker)
	items := new(mockItemChecker)
	locations.On("Exists", mock.Anything, "PICK-A1").Return(true, nil)
	items.On("GetBySKU", mock.Anything, "SKU-A").Return(&catalogmodel.Item{SKU: "SKU-A", IsSerialized: true}, nil)

	svc := &InventoryService{repo: repo, locations: locations, items: items}
	_, err := svc.Receive(context.Background(), "SKU-A", "PICK-A1", 2, nil, nil, model.StatusAvailable, nil, nil)

	require.Error(t, err)
	assert.True(t, model.IsSerialError(err))
	repo.AssertNotCalled(t, "UpsertReceiveTx")
}

func TestReceive_HappyPathAppendsJournalAndRegistersSerials(t *testing.T) {
	repo := new(mockInventoryRepo)
	journal := new(mockJournalWriter)
	locations := new(mockLocationChecker)
	items := new(mockItemChecker)
	invID := uuid.New()

	locations.On("Exists", mock.Anything, "PICK-A1").Return(true, nil)
	items.On("GetBySKU", mock.Anything, "SKU-A").Return(&catalogmodel.Item{SKU: "SKU-A", IsSerialized: true}, nil)
	repo.On("UpsertReceiveTx", mock.Anything, mock.Anything, "SKU-A", "PICK-A1", (*string)(nil), model.StatusAvailable, (*time.Time)(nil), 2).
		Return(&model.Inventory{ID: invID, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 2}, nil)
	repo.On("RegisterSerialsTx", mock.Anything, mock.Anything, invID, "SKU-A", "PICK-A1", []string{"SN-1", "SN-2"}).Return(nil)
	journal.On("AppendTx", mock.Anything, mock.Anything, mock.AnythingOfType("journalmodel.Entry")).Return(nil)

	svc := &InventoryService{repo: repo, journal: journal, locations: locations, items: items, tx: fakeTxRunner{}}
	result, err := svc.Receive(context.Background(), "SKU-A", "PICK-A1", 2, nil, nil, model.StatusAvailable, []string{"SN-1", "SN-2"}, nil)

	require.NoError(t, err)
	assert.Equal(t, invID, result.ID)
	assert.Equal(t, 2, result.NewQty)
	repo.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestPick_HappyPathReleasesReservationAndAppendsJournal(t *testing.T) {
	repo := new(mockInventoryRepo)
	journal := new(mockJournalWriter)
	id := uuid.New()
	row := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 10, ReservedQuantity: 4, Version: 1}
	updated := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 7, ReservedQuantity: 1, Version: 2}

	repo.On("GetByID", mock.Anything, id).Return(row, nil)
	repo.On("VersionedUpdateTx", mock.Anything, mock.Anything, id, 1, 7, 1).Return(updated, nil)
	journal.On("AppendTx", mock.Anything, mock.Anything, mock.AnythingOfType("journalmodel.Entry")).Return(nil)

	svc := &InventoryService{repo: repo, journal: journal, tx: fakeTxRunner{}}
	result, err := svc.Pick(context.Background(), id, 3, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 7, result.Quantity)
	repo.AssertNotCalled(t, "GetSerialForUpdate")
	journal.AssertExpectations(t)
}

func TestMove_DecrementsSourceAndIncrementsDestination(t *testing.T) {
	repo := new(mockInventoryRepo)
	journal := new(mockJournalWriter)
	locations := new(mockLocationChecker)
	srcID := uuid.New()
	src := &model.Inventory{ID: srcID, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 10, ReservedQuantity: 2, Version: 1, Status: model.StatusAvailable}
	dest := &model.Inventory{ID: uuid.New(), SKU: "SKU-A", LocationCode: "PICK-B1", Quantity: 4, Status: model.StatusAvailable}

	locations.On("Exists", mock.Anything, "PICK-B1").Return(true, nil)
	repo.On("GetByKey", mock.Anything, "SKU-A", "PICK-A1", (*string)(nil), model.StatusAvailable).Return(src, nil)
	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, srcID).Return(src, nil)
	repo.On("VersionedUpdateTx", mock.Anything, mock.Anything, srcID, 1, 6, 0).Return(src, nil)
	repo.On("UpsertReceiveTx", mock.Anything, mock.Anything, "SKU-A", "PICK-B1", src.LotNumber, src.Status, src.ExpiryDate, 4).Return(dest, nil)
	journal.On("AppendTx", mock.Anything, mock.Anything, mock.AnythingOfType("journalmodel.Entry")).Return(nil)

	svc := &InventoryService{repo: repo, journal: journal, locations: locations, tx: fakeTxRunner{}}
	result, err := svc.Move(context.Background(), "SKU-A", "PICK-A1", "PICK-B1", 4, nil)

	require.NoError(t, err)
	assert.Contains(t, result.Message, "PICK-A1")
	repo.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestAdjust_SetsQuantityAndRecordsDelta(t *testing.T) {
	repo := new(mockInventoryRepo)
	journal := new(mockJournalWriter)
	id := uuid.New()
	current := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 10, ReservedQuantity: 0, Version: 3}
	adjusted := &model.Inventory{ID: id, SKU: "SKU-A", LocationCode: "PICK-A1", Quantity: 8, ReservedQuantity: 0, Version: 4}

	repo.On("GetByIDForUpdate", mock.Anything, mock.Anything, id).Return(current, nil)
	repo.On("VersionedUpdateTx", mock.Anything, mock.Anything, id, 3, 8, 0).Return(adjusted, nil)
	journal.On("AppendTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e journalmodel.Entry) bool {
		return e.QuantityChange == -2 && e.Action == journalmodel.ActionAdjust
	})).Return(nil)

	svc := &InventoryService{repo: repo, journal: journal, tx: fakeTxRunner{}}
	result, err := svc.Adjust(context.Background(), id, 8, "cycle count variance", nil)

	require.NoError(t, err)
	assert.Equal(t, 8, result.Quantity)
	journal.AssertExpectations(t)
}
