package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	catalogmodel "wms-core/internal/domains/catalog/model"
	"wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/inventory/repository"
	journalmodel "wms-core/internal/domains/journal/model"
	journalrepo "wms-core/internal/domains/journal/repository"
	"wms-core/pkg/database"
	"wms-core/pkg/logger"
)

// maxVersionedUpdateRetries bounds the optimistic-conflict retry loop per
// spec.md §5: on conflict retry ≤3 times, then surface Conflict.
const maxVersionedUpdateRetries = 3

// locationChecker is the narrow slice of the location repository the
// Inventory Store needs to validate a location_code before mutating stock
// against it.
type locationChecker interface {
	Exists(ctx context.Context, locationCode string) (bool, error)
}

// itemChecker is the narrow slice of the catalog repository the Inventory
// Store needs to know whether a SKU is serialized before accepting a
// receipt for it.
type itemChecker interface {
	GetBySKU(ctx context.Context, sku string) (*catalogmodel.Item, error)
}

// txRunner wraps pkg/database.WithTransaction behind an interface so the
// service's control flow (retry loops, branching on domain errors) is
// testable against a fake runner that doesn't need a live Postgres pool.
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

type InventoryService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	journal   journalrepo.Writer
	locations locationChecker
	items     itemChecker
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, journal journalrepo.Writer, locations locationChecker, items itemChecker) ServiceInterface {
	return &InventoryService{tx: poolTxRunner{pool: pool}, repo: repo, journal: journal, locations: locations, items: items}
}

// validateReceive checks the location and serial-number shape shared by
// Receive and ReceiveTx before either opens or joins a transaction.
func (s *InventoryService) validateReceive(ctx context.Context, sku, locationCode string, qty int, serials []string) error {
	if ok, err := s.locations.Exists(ctx, locationCode); err != nil {
		return fmt.Errorf("failed to check location: %w", err)
	} else if !ok {
		return model.NewUnknownLocationError(locationCode)
	}

	item, err := s.items.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if item.IsSerialized && len(serials) == 0 {
		return model.NewSerialMismatchError(fmt.Sprintf("item %s is serialized and requires serial numbers", sku))
	}
	if len(serials) > 0 && len(serials) != qty {
		return model.NewSerialMismatchError(fmt.Sprintf("got %d serials for qty %d", len(serials), qty))
	}
	return nil
}

// receiveTx is Receive's transaction body: the composite-key row is
// inserted-or-incremented, serials are registered IN_STOCK, and the journal
// entry is appended, all against the caller-supplied tx.
func (s *InventoryService) receiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status model.Status, serials []string, actor *string) (*ReceiveResult, error) {
	inv, err := s.repo.UpsertReceiveTx(ctx, tx, sku, locationCode, lot, status, expiry, qty)
	if err != nil {
		return nil, err
	}

	if len(serials) > 0 {
		if err := s.repo.RegisterSerialsTx(ctx, tx, inv.ID, sku, locationCode, serials); err != nil {
			return nil, err
		}
	}

	if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
		ID:               uuid.New(),
		Action:           journalmodel.ActionReceive,
		SKUSnapshot:      sku,
		LocationSnapshot: locationCode,
		QuantityChange:   qty,
		LotSnapshot:      lot,
		Actor:            actor,
	}); err != nil {
		return nil, err
	}

	return &ReceiveResult{ID: inv.ID, NewQty: inv.Quantity}, nil
}

// Receive implements spec.md §4.1 receive(), in a transaction of its own.
func (s *InventoryService) Receive(ctx context.Context, sku, locationCode string, qty int, lot *string, expiry *time.Time, status model.Status, serials []string, actor *string) (*ReceiveResult, error) {
	if err := s.validateReceive(ctx, sku, locationCode, qty, serials); err != nil {
		return nil, err
	}

	result, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*ReceiveResult, error) {
		return s.receiveTx(ctx, tx, sku, locationCode, qty, lot, expiry, status, serials, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("inventory received", map[string]interface{}{"sku": sku, "location_code": locationCode, "qty": qty})
	return result, nil
}

// ReceiveTx is Receive joined to the caller's own open transaction, used by
// composite operations (PO receiving, RMA receipt) so the physical receipt
// commits or rolls back with their own line/status bookkeeping.
func (s *InventoryService) ReceiveTx(ctx context.Context, tx pgx.Tx, sku, locationCode string, qty int, lot *string, expiry *time.Time, status model.Status, serials []string, actor *string) (*ReceiveResult, error) {
	if err := s.validateReceive(ctx, sku, locationCode, qty, serials); err != nil {
		return nil, err
	}

	result, err := s.receiveTx(ctx, tx, sku, locationCode, qty, lot, expiry, status, serials, actor)
	if err != nil {
		return nil, err
	}

	logger.Info("inventory received", map[string]interface{}{"sku": sku, "location_code": locationCode, "qty": qty})
	return result, nil
}

// Pick implements the blind pick(inventory_id, qty) operation surface
// entry: it uses the optimistic versionedUpdate path rather than holding a
// lock across the whole call, retrying on conflict per spec.md §5.
func (s *InventoryService) Pick(ctx context.Context, inventoryID uuid.UUID, qty int, serial *string, actor *string) (*model.Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("pick quantity must be positive")
	}

	var updated *model.Inventory
	for attempt := 0; attempt < maxVersionedUpdateRetries; attempt++ {
		current, err := s.repo.GetByID(ctx, inventoryID)
		if err != nil {
			return nil, err
		}
		if current.Quantity < qty {
			return nil, model.NewNoStockError(current.SKU, current.LocationCode, qty, current.Quantity)
		}

		newQty := current.Quantity - qty
		releasedReservation := min(qty, current.ReservedQuantity)
		newReserved := current.ReservedQuantity - releasedReservation

		result, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Inventory, error) {
			inv, err := s.repo.VersionedUpdateTx(ctx, tx, inventoryID, current.Version, newQty, newReserved)
			if err != nil {
				return nil, err
			}
			if inv == nil {
				return nil, nil // conflict: caller retries
			}

			if serial != nil {
				sn, err := s.repo.GetSerialForUpdate(ctx, tx, *serial)
				if err != nil {
					return nil, err
				}
				if sn.Status != model.SerialInStock {
					return nil, model.NewInvalidSerialError(*serial)
				}
				if err := s.repo.TransitionSerialTx(ctx, tx, *serial, model.SerialPacked, nil, nil, nil); err != nil {
					return nil, err
				}
			}

			if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
				ID:               uuid.New(),
				Action:           journalmodel.ActionPick,
				SKUSnapshot:      inv.SKU,
				LocationSnapshot: inv.LocationCode,
				QuantityChange:   -qty,
				LotSnapshot:      inv.LotNumber,
				Actor:            actor,
			}); err != nil {
				return nil, err
			}
			return inv, nil
		})
		if err != nil {
			return nil, err
		}
		if result != nil {
			updated = result
			break
		}
	}

	if updated == nil {
		return nil, model.NewConflictError(inventoryID, maxVersionedUpdateRetries)
	}
	logger.Info("inventory picked", map[string]interface{}{"inventory_id": inventoryID.String(), "qty": qty})
	return updated, nil
}

// moveTx is Move's transaction body: pick-at-src + receive-at-dst of the
// same (lot, status, expiry), holding both rows' locks across the
// caller-supplied tx.
func (s *InventoryService) moveTx(ctx context.Context, tx pgx.Tx, sku, src, dst string, qty int, actor *string) error {
	srcRow, err := s.repo.GetByKey(ctx, sku, src, nil, model.StatusAvailable)
	if err != nil {
		return err
	}
	locked, err := s.repo.GetByIDForUpdate(ctx, tx, srcRow.ID)
	if err != nil {
		return err
	}
	if locked.Quantity < qty {
		return model.NewNoStockError(sku, src, qty, locked.Quantity)
	}

	newSrcReserved := locked.ReservedQuantity - min(qty, locked.ReservedQuantity)
	if _, err := s.repo.VersionedUpdateTx(ctx, tx, locked.ID, locked.Version, locked.Quantity-qty, newSrcReserved); err != nil {
		return err
	}

	destRow, err := s.repo.UpsertReceiveTx(ctx, tx, sku, dst, locked.LotNumber, locked.Status, locked.ExpiryDate, qty)
	if err != nil {
		return err
	}

	snapshot := journalmodel.NewMoveLocationSnapshot(src, dst)
	return s.journal.AppendTx(ctx, tx, journalmodel.Entry{
		ID:               uuid.New(),
		Action:           journalmodel.ActionMove,
		SKUSnapshot:      sku,
		LocationSnapshot: snapshot,
		QuantityChange:   qty,
		LotSnapshot:      destRow.LotNumber,
		Actor:            actor,
	})
}

// Move implements move(sku, src, dst, qty, actor?), in a transaction of its
// own.
func (s *InventoryService) Move(ctx context.Context, sku, src, dst string, qty int, actor *string) (*MoveResult, error) {
	if ok, err := s.locations.Exists(ctx, dst); err != nil {
		return nil, fmt.Errorf("failed to check destination location: %w", err)
	} else if !ok {
		return nil, model.NewUnknownLocationError(dst)
	}

	err := s.tx.RunTx(ctx, func(tx pgx.Tx) error {
		return s.moveTx(ctx, tx, sku, src, dst, qty, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("inventory moved", map[string]interface{}{"sku": sku, "src": src, "dst": dst, "qty": qty})
	return &MoveResult{Message: fmt.Sprintf("moved %d units of %s from %s to %s", qty, sku, src, dst)}, nil
}

// MoveTx is Move joined to the caller's own open transaction, used by
// replenishment's CompleteReplenishment so the stock movement commits or
// rolls back with the task's own status bookkeeping.
func (s *InventoryService) MoveTx(ctx context.Context, tx pgx.Tx, sku, src, dst string, qty int, actor *string) (*MoveResult, error) {
	if ok, err := s.locations.Exists(ctx, dst); err != nil {
		return nil, fmt.Errorf("failed to check destination location: %w", err)
	} else if !ok {
		return nil, model.NewUnknownLocationError(dst)
	}

	if err := s.moveTx(ctx, tx, sku, src, dst, qty, actor); err != nil {
		return nil, err
	}

	logger.Info("inventory moved", map[string]interface{}{"sku": sku, "src": src, "dst": dst, "qty": qty})
	return &MoveResult{Message: fmt.Sprintf("moved %d units of %s from %s to %s", qty, sku, src, dst)}, nil
}

// adjustTx is Adjust's transaction body: lock the row, compute the delta
// against its pre-adjustment quantity, write the new quantity, and append
// the journal entry, all against the caller-supplied tx.
func (s *InventoryService) adjustTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*model.Inventory, error) {
	current, err := s.repo.GetByIDForUpdate(ctx, tx, inventoryID)
	if err != nil {
		return nil, err
	}
	delta := newQty - current.Quantity

	inv, err := s.repo.VersionedUpdateTx(ctx, tx, inventoryID, current.Version, newQty, current.ReservedQuantity)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, model.NewConflictError(inventoryID, 1)
	}

	if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
		ID:               uuid.New(),
		Action:           journalmodel.ActionAdjust,
		SKUSnapshot:      inv.SKU,
		LocationSnapshot: inv.LocationCode,
		QuantityChange:   delta,
		LotSnapshot:      inv.LotNumber,
		Actor:            actor,
	}); err != nil {
		return nil, err
	}
	return inv, nil
}

// Adjust implements adjust(invRow, newQty, reason): an unconditional set,
// in a transaction of its own, used by damage write-offs and any caller
// that doesn't already hold one open.
func (s *InventoryService) Adjust(ctx context.Context, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*model.Inventory, error) {
	updated, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Inventory, error) {
		return s.adjustTx(ctx, tx, inventoryID, newQty, reason, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("inventory adjusted", map[string]interface{}{"inventory_id": inventoryID.String(), "new_qty": newQty, "reason": reason})
	return updated, nil
}

// AdjustTx is Adjust joined to the caller's own open transaction, used by
// cycle-count's submit_count so the locked read, variance computation, and
// count-task bookkeeping commit or roll back with the quantity write.
func (s *InventoryService) AdjustTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*model.Inventory, error) {
	updated, err := s.adjustTx(ctx, tx, inventoryID, newQty, reason, actor)
	if err != nil {
		return nil, err
	}

	logger.Info("inventory adjusted", map[string]interface{}{"inventory_id": inventoryID.String(), "new_qty": newQty, "reason": reason})
	return updated, nil
}

func (s *InventoryService) ListForSKU(ctx context.Context, sku string) ([]model.Inventory, error) {
	return s.repo.ListForSKU(ctx, sku)
}

func (s *InventoryService) ListByLocation(ctx context.Context, locationCode string) ([]model.Inventory, error) {
	return s.repo.ListByLocation(ctx, locationCode)
}

// GetByID returns the inventory row with the given id, read outside any
// transaction.
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIDForUpdateTx locks a row within the caller's open transaction, for
// composite operations (cycle-count's submit_count) that must read the
// pre-adjustment quantity and write the adjustment atomically.
func (s *InventoryService) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, error) {
	return s.repo.GetByIDForUpdate(ctx, tx, id)
}
