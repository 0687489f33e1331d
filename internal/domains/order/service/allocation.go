package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/order/model"
	"wms-core/pkg/logger"
)

// inventoryAllocator is the narrow inventory-repository slice the
// Allocation Engine reserves stock through. It runs inside the same
// transaction as the order/line locks it takes, so every VersionedUpdateTx
// call here is expected to succeed on the first attempt — the row is
// already held by the preceding FOR UPDATE candidate scan.
type inventoryAllocator interface {
	CandidatesForAllocation(ctx context.Context, tx pgx.Tx, sku string) ([]invmodel.Inventory, error)
	VersionedUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expectedVersion int, newQty, newReserved int) (*invmodel.Inventory, error)
}

// Allocate reserves stock against every outstanding line of a PENDING
// order, per spec.md §4.2: FEFO candidate order, greedy per-line taking,
// idempotent on partial PENDING allocation, InvalidState outside PENDING.
func (s *OrderService) Allocate(ctx context.Context, orderNumber string) (*model.AllocationResult, error) {
	result, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.AllocationResult, error) {
		order, err := s.lockOrderByNumber(ctx, tx, orderNumber)
		if err != nil {
			return nil, err
		}
		if order.Status != model.StatusPending {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusPending)
		}
		if order.IsOnHold {
			return nil, model.NewInvalidStateError(orderNumber, order.Status, model.StatusPending)
		}

		lines, err := s.repo.ListLinesForOrderTx(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}

		lineResults := make([]model.LineAllocationResult, 0, len(lines))
		allFullyAllocated := true
		for i := range lines {
			line := &lines[i]
			qtyNeeded := line.QtyNeeded()
			if qtyNeeded > 0 {
				candidates, err := s.inventory.CandidatesForAllocation(ctx, tx, line.SKU)
				if err != nil {
					return nil, err
				}
				for _, candidate := range candidates {
					if qtyNeeded == 0 {
						break
					}
					avail := candidate.Available()
					if avail <= 0 {
						continue
					}
					take := min(avail, qtyNeeded)
					if _, err := s.inventory.VersionedUpdateTx(ctx, tx, candidate.ID, candidate.Version, candidate.Quantity, candidate.ReservedQuantity+take); err != nil {
						return nil, err
					}
					qtyNeeded -= take
					line.QtyAllocated += take
				}
				if err := s.repo.UpdateLineAllocationTx(ctx, tx, line.ID, line.QtyAllocated); err != nil {
					return nil, err
				}
			}
			if !line.FullyAllocated() {
				allFullyAllocated = false
			}
			lineResults = append(lineResults, model.LineAllocationResult{
				SKU:       line.SKU,
				Ordered:   line.QtyOrdered,
				Allocated: line.QtyAllocated,
			})
		}

		finalStatus := order.Status
		if allFullyAllocated {
			updated, err := s.repo.VersionedUpdateStatusTx(ctx, tx, order.ID, order.Version, model.StatusAllocated)
			if err != nil {
				return nil, err
			}
			if updated == nil {
				return nil, model.NewConflictError(order.ID)
			}
			finalStatus = updated.Status
		}

		return &model.AllocationResult{Status: finalStatus, Lines: lineResults}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order allocated", map[string]interface{}{"order_number": orderNumber, "status": string(result.Status)})
	return result, nil
}

func (s *OrderService) lockOrderByNumber(ctx context.Context, tx pgx.Tx, orderNumber string) (*model.Order, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	locked, err := s.repo.GetByIDForUpdate(ctx, tx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return locked, nil
}
