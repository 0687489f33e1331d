package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/order/model"
	"wms-core/internal/domains/order/repository"
	journalrepo "wms-core/internal/domains/journal/repository"
	"wms-core/internal/infrastructure/broadcast"
	"wms-core/internal/infrastructure/labelstore"
	"wms-core/pkg/database"
)

// txRunner mirrors the inventory domain's testability seam: it hides
// pkg/database.WithTransaction behind an interface so the allocation and
// pipeline control flow can be unit tested without a live Postgres pool.
type txRunner interface {
	RunTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type poolTxRunner struct {
	pool *pgxpool.Pool
}

func (p poolTxRunner) RunTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return database.WithTransaction(ctx, p.pool, fn)
}

func runTxResult[T any](ctx context.Context, runner txRunner, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error
	err := runner.RunTx(ctx, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// inventoryPicker is the narrow inventory-repository slice the Order
// Pipeline's pick_order_item delegates the physical decrement to.
type inventoryPicker interface {
	CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status invmodel.Status) ([]invmodel.Inventory, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invmodel.Inventory, error)
	VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*invmodel.Inventory, error)
	GetSerialForUpdate(ctx context.Context, tx pgx.Tx, serial string) (*invmodel.SerialNumber, error)
	TransitionSerialTx(ctx context.Context, tx pgx.Tx, serial string, status invmodel.SerialStatus, invID *uuid.UUID, locationCode *string, orderLineID *uuid.UUID) error
	ListSerialsByOrderLineForUpdateTx(ctx context.Context, tx pgx.Tx, orderLineID uuid.UUID) ([]invmodel.SerialNumber, error)
}

// cycleCountRecorder lets short_pick auto-create the PENDING
// CycleCountTask it raises against the touched inventory row, grouped
// under the system session SYS-ERR-*, without the order domain depending
// on the full cycle count repository.
type cycleCountRecorder interface {
	RecordSystemDiscrepancyTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, expectedQty int) error
}

// combinedInventoryAccess is what the order domain actually needs from the
// inventory repository: allocation's candidate scan plus the pipeline's
// pick/ship primitives.
type combinedInventoryAccess interface {
	inventoryAllocator
	inventoryPicker
}

type OrderService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	inventory combinedInventoryAccess
	journal   journalrepo.Writer
	counts    cycleCountRecorder
	broadcast broadcast.Publisher
	labels    labelstore.Sink
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, inventory combinedInventoryAccess, journal journalrepo.Writer, counts cycleCountRecorder, publisher broadcast.Publisher, labels labelstore.Sink) ServiceInterface {
	if publisher == nil {
		publisher = broadcast.NoopPublisher{}
	}
	if labels == nil {
		labels = labelstore.NoopSink{}
	}
	return &OrderService{tx: poolTxRunner{pool: pool}, repo: repo, inventory: inventory, journal: journal, counts: counts, broadcast: publisher, labels: labels}
}

// PrintLabel implements the label sink collaborator: the caller has already
// rendered label content (ZPL/PDF/whatever) for a packed or shipped order and just
// needs it persisted and addressable.
func (s *OrderService) PrintLabel(ctx context.Context, orderNumber string, data []byte) (string, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	if order.Status != model.StatusShipped && order.Status != model.StatusPacked {
		return "", model.NewInvalidStateError(orderNumber, order.Status, model.StatusShipped)
	}
	return s.labels.Put(ctx, "", data)
}

func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

func (s *OrderService) ListLines(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	return s.repo.ListLinesForOrder(ctx, orderID)
}
