package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	invmodel "wms-core/internal/domains/inventory/model"
	journalmodel "wms-core/internal/domains/journal/model"
	"wms-core/internal/domains/order/model"
	"wms-core/internal/infrastructure/broadcast"
	"wms-core/pkg/logger"
)

// PickOrderItem implements spec.md §4.3 pick_order_item(): valid only while
// the order is ALLOCATED or already PICKED (additional units of the same
// order), delegates the physical decrement to the Inventory Store's FEFO
// pick candidates, and advances the order to PICKED once every line is
// fully picked.
func (s *OrderService) PickOrderItem(ctx context.Context, orderNumber, sku, locationCode string, qty int, lot *string, serial *string) (*model.PickResult, error) {
	result, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.PickResult, error) {
		order, err := s.lockOrderByNumber(ctx, tx, orderNumber)
		if err != nil {
			return nil, err
		}
		if order.Status != model.StatusAllocated && order.Status != model.StatusPicked {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusAllocated)
		}

		line, err := s.repo.GetLineBySKUForUpdate(ctx, tx, order.ID, sku)
		if err != nil {
			return nil, err
		}
		remaining := line.QtyAllocated - line.QtyPicked
		if qty > remaining {
			return nil, model.NewOverPickError(sku, qty, remaining)
		}

		candidates, err := s.inventory.CandidatesForPick(ctx, sku, &locationCode, lot, invmodel.StatusAvailable)
		if err != nil {
			return nil, err
		}
		var chosenID uuid.UUID
		found := false
		for _, c := range candidates {
			if c.Quantity >= qty {
				chosenID = c.ID
				found = true
				break
			}
		}
		if !found {
			return nil, invmodel.NewNoStockError(sku, locationCode, qty, 0)
		}

		locked, err := s.inventory.GetByIDForUpdate(ctx, tx, chosenID)
		if err != nil {
			return nil, err
		}
		if locked.Quantity < qty {
			return nil, invmodel.NewNoStockError(sku, locationCode, qty, locked.Quantity)
		}

		releasedReservation := min(qty, locked.ReservedQuantity)
		updated, err := s.inventory.VersionedUpdateTx(ctx, tx, locked.ID, locked.Version, locked.Quantity-qty, locked.ReservedQuantity-releasedReservation)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, invmodel.NewConflictError(locked.ID, 1)
		}

		if serial != nil {
			sn, err := s.inventory.GetSerialForUpdate(ctx, tx, *serial)
			if err != nil {
				return nil, err
			}
			if sn.Status != invmodel.SerialInStock || sn.SKU != sku || sn.LocationCode != locationCode {
				return nil, invmodel.NewInvalidSerialError(*serial)
			}
			if err := s.inventory.TransitionSerialTx(ctx, tx, *serial, invmodel.SerialPacked, nil, nil, &line.ID); err != nil {
				return nil, err
			}
		}

		if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
			ID:               uuid.New(),
			Action:           journalmodel.ActionPick,
			SKUSnapshot:      sku,
			LocationSnapshot: locationCode,
			QuantityChange:   -qty,
			LotSnapshot:      locked.LotNumber,
		}); err != nil {
			return nil, err
		}

		line.QtyPicked += qty
		if err := s.repo.UpdateLinePickedTx(ctx, tx, line.ID, line.QtyPicked); err != nil {
			return nil, err
		}

		finalStatus := order.Status
		lines, err := s.repo.ListLinesForOrderTx(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}
		allPicked := true
		for i := range lines {
			if lines[i].ID == line.ID {
				lines[i] = *line
			}
			if !lines[i].FullyPicked() {
				allPicked = false
			}
		}
		if allPicked && order.Status != model.StatusPicked {
			advanced, err := s.repo.VersionedUpdateStatusTx(ctx, tx, order.ID, order.Version, model.StatusPicked)
			if err != nil {
				return nil, err
			}
			if advanced == nil {
				return nil, model.NewConflictError(order.ID)
			}
			finalStatus = advanced.Status
		}

		return &model.PickResult{LineID: line.ID, QtyPicked: line.QtyPicked, Status: finalStatus}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order line picked", map[string]interface{}{"order_number": orderNumber, "sku": sku, "qty": qty})
	return result, nil
}

// Pack implements pack(order): requires PICKED, sets PACKED, and journals a
// zero-quantity PACK entry per line for audit visibility.
func (s *OrderService) Pack(ctx context.Context, orderNumber string) (*model.Order, error) {
	updated, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Order, error) {
		order, err := s.lockOrderByNumber(ctx, tx, orderNumber)
		if err != nil {
			return nil, err
		}
		if order.Status != model.StatusPicked {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusPicked)
		}

		lines, err := s.repo.ListLinesForOrderTx(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
				ID:             uuid.New(),
				Action:         journalmodel.ActionPack,
				SKUSnapshot:    line.SKU,
				QuantityChange: 0,
			}); err != nil {
				return nil, err
			}
		}

		next, err := s.repo.VersionedUpdateStatusTx(ctx, tx, order.ID, order.Version, model.StatusPacked)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, model.NewConflictError(order.ID)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order packed", map[string]interface{}{"order_number": orderNumber})
	return updated, nil
}

// Ship implements ship(order): requires PICKED or PACKED, sets SHIPPED,
// transitions every line's assigned serials PACKED → SHIPPED, and journals
// a zero-quantity SHIP entry per line.
func (s *OrderService) Ship(ctx context.Context, orderNumber string) (*model.Order, error) {
	updated, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Order, error) {
		order, err := s.lockOrderByNumber(ctx, tx, orderNumber)
		if err != nil {
			return nil, err
		}
		if order.Status != model.StatusPicked && order.Status != model.StatusPacked {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusPacked)
		}

		lines, err := s.repo.ListLinesForOrderTx(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			serials, err := s.inventory.ListSerialsByOrderLineForUpdateTx(ctx, tx, line.ID)
			if err != nil {
				return nil, err
			}
			for _, sn := range serials {
				if sn.Status != invmodel.SerialPacked {
					continue
				}
				if err := s.inventory.TransitionSerialTx(ctx, tx, sn.Serial, invmodel.SerialShipped, nil, nil, &line.ID); err != nil {
					return nil, err
				}
			}
			if err := s.journal.AppendTx(ctx, tx, journalmodel.Entry{
				ID:             uuid.New(),
				Action:         journalmodel.ActionShip,
				SKUSnapshot:    line.SKU,
				QuantityChange: 0,
			}); err != nil {
				return nil, err
			}
		}

		next, err := s.repo.VersionedUpdateStatusTx(ctx, tx, order.ID, order.Version, model.StatusShipped)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, model.NewConflictError(order.ID)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order shipped", map[string]interface{}{"order_number": orderNumber})
	if s.broadcast != nil {
		s.broadcast.Publish(ctx, broadcast.Event{Type: "order.shipped", Data: updated})
	}
	return updated, nil
}

// ShortPick implements short_pick(order, sku, loc, qty_missing): compensates
// a shortage discovered at a specific bin by releasing reservations on the
// FEFO-ordered rows at that location, raising a system cycle-count task on
// each touched row, and reverting the order to PENDING if the line can no
// longer be fully allocated.
func (s *OrderService) ShortPick(ctx context.Context, orderNumber, sku, locationCode string, qtyMissing int) (*model.Order, error) {
	updated, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Order, error) {
		order, err := s.lockOrderByNumber(ctx, tx, orderNumber)
		if err != nil {
			return nil, err
		}
		if order.Status != model.StatusAllocated && order.Status != model.StatusPicked {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusAllocated)
		}

		line, err := s.repo.GetLineBySKUForUpdate(ctx, tx, order.ID, sku)
		if err != nil {
			return nil, err
		}
		releaseTotal := min(line.QtyAllocated, qtyMissing)
		line.QtyAllocated -= releaseTotal
		if err := s.repo.UpdateLineAllocationTx(ctx, tx, line.ID, line.QtyAllocated); err != nil {
			return nil, err
		}

		// Any serial this line already packed ahead of the discovered
		// shortage reverts to IN_STOCK at its row's location, per spec.md
		// §9.3: a short pick undoes the pack, it doesn't ship a phantom unit.
		serials, err := s.inventory.ListSerialsByOrderLineForUpdateTx(ctx, tx, line.ID)
		if err != nil {
			return nil, err
		}
		for _, sn := range serials {
			if sn.Status != invmodel.SerialPacked {
				continue
			}
			if err := s.inventory.TransitionSerialTx(ctx, tx, sn.Serial, invmodel.SerialInStock, sn.InventoryID, &sn.LocationCode, nil); err != nil {
				return nil, err
			}
		}

		candidates, err := s.inventory.CandidatesForPick(ctx, sku, &locationCode, nil, invmodel.StatusAvailable)
		if err != nil {
			return nil, err
		}
		remaining := releaseTotal
		for _, c := range candidates {
			if remaining == 0 {
				break
			}
			if c.ReservedQuantity == 0 {
				continue
			}
			locked, err := s.inventory.GetByIDForUpdate(ctx, tx, c.ID)
			if err != nil {
				return nil, err
			}
			take := min(remaining, locked.ReservedQuantity)
			if take == 0 {
				continue
			}
			if _, err := s.inventory.VersionedUpdateTx(ctx, tx, locked.ID, locked.Version, locked.Quantity, locked.ReservedQuantity-take); err != nil {
				return nil, err
			}
			if s.counts != nil {
				if err := s.counts.RecordSystemDiscrepancyTx(ctx, tx, locked.ID, locked.Quantity); err != nil {
					return nil, err
				}
			}
			remaining -= take
		}

		result := order
		if line.QtyAllocated < line.QtyOrdered && order.Status != model.StatusPending {
			advanced, err := s.repo.VersionedUpdateStatusTx(ctx, tx, order.ID, order.Version, model.StatusPending)
			if err != nil {
				return nil, err
			}
			if advanced == nil {
				return nil, model.NewConflictError(order.ID)
			}
			result = advanced
		}

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order short picked", map[string]interface{}{"order_number": orderNumber, "sku": sku, "location_code": locationCode, "qty_missing": qtyMissing})
	return updated, nil
}
