package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	invmodel "wms-core/internal/domains/inventory/model"
	locmodel "wms-core/internal/domains/location/model"
	ordermodel "wms-core/internal/domains/order/model"
	orderrepo "wms-core/internal/domains/order/repository"
	"wms-core/internal/domains/wave/model"
	"wms-core/pkg/database"
	"wms-core/pkg/logger"
)

// txRunner mirrors the seam used across the other domains.
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

// inventoryCandidates is the narrow inventory-repository slice the planner
// and cluster resolver need: the same FEFO candidate scan pick_order_item
// draws from.
type inventoryCandidates interface {
	CandidatesForPick(ctx context.Context, sku string, locationCode, lot *string, status invmodel.Status) ([]invmodel.Inventory, error)
}

// locationLookup is the narrow location collaborator: resolving a pick
// location's (x, y) for walk-path ordering.
type locationLookup interface {
	GetLocation(ctx context.Context, code string) (*locmodel.Location, error)
}

// orderPicker is the narrow order-service collaborator complete_wave
// delegates the actual physical pick to.
type orderPicker interface {
	PickOrderItem(ctx context.Context, orderNumber, sku, locationCode string, qty int, lot *string, serial *string) (*ordermodel.PickResult, error)
}

type WaveService struct {
	tx        txRunner
	orders    orderrepo.RepositoryInterface
	inventory inventoryCandidates
	locations locationLookup
	picker    orderPicker
}

func NewService(pool *pgxpool.Pool, orders orderrepo.RepositoryInterface, inventory inventoryCandidates, locations locationLookup, picker orderPicker) ServiceInterface {
	return &WaveService{tx: poolTxRunner{pool: pool}, orders: orders, inventory: inventory, locations: locations, picker: picker}
}

// demandLine is one order line's outstanding contribution to a SKU's
// aggregate demand, carried alongside its order for labeling.
type demandLine struct {
	order ordermodel.Order
	line  ordermodel.OrderLine
	qty   int
}

// collectDemand walks the given orders in order, returning outstanding
// per-line demand (qty_allocated - qty_picked) grouped by SKU, preserving
// encounter order within each SKU's contributor list.
func (s *WaveService) collectDemand(ctx context.Context, orders []ordermodel.Order) (map[string][]demandLine, []string, error) {
	bySKU := make(map[string][]demandLine)
	var skuOrder []string
	for _, order := range orders {
		lines, err := s.orders.ListLinesForOrder(ctx, order.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, line := range lines {
			remaining := line.QtyAllocated - line.QtyPicked
			if remaining <= 0 {
				continue
			}
			if _, seen := bySKU[line.SKU]; !seen {
				skuOrder = append(skuOrder, line.SKU)
			}
			bySKU[line.SKU] = append(bySKU[line.SKU], demandLine{order: order, line: line, qty: remaining})
		}
	}
	return bySKU, skuOrder, nil
}

// resolveCandidates fans out one CandidatesForPick scan per SKU
// concurrently and joins on completion — the per-SKU bin lookups are
// independent, so a wave spanning many SKUs doesn't pay for them serially.
func (s *WaveService) resolveCandidates(ctx context.Context, skus []string) (map[string][]invmodel.Inventory, error) {
	results := make([][]invmodel.Inventory, len(skus))
	g, gctx := errgroup.WithContext(ctx)
	for i, sku := range skus {
		i, sku := i, sku
		g.Go(func() error {
			rows, err := s.inventory.CandidatesForPick(gctx, sku, nil, nil, invmodel.StatusAvailable)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string][]invmodel.Inventory, len(skus))
	for i, sku := range skus {
		out[sku] = results[i]
	}
	return out, nil
}

// WavePlan implements wave_plan(order_ids).
func (s *WaveService) WavePlan(ctx context.Context, orderIDs []uuid.UUID) ([]model.WaveItem, error) {
	if len(orderIDs) == 0 {
		return nil, model.ErrNoOrders
	}
	orders, err := s.orders.ListAllocatedNotOnHold(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	bySKU, skuOrder, err := s.collectDemand(ctx, orders)
	if err != nil {
		return nil, err
	}

	candidatesBySKU, err := s.resolveCandidates(ctx, skuOrder)
	if err != nil {
		return nil, err
	}

	items := make([]model.WaveItem, 0, len(skuOrder))
	for _, sku := range skuOrder {
		lines := bySKU[sku]
		total := 0
		contributors := make([]model.Contribution, 0, len(lines))
		for _, dl := range lines {
			total += dl.qty
			contributors = append(contributors, model.Contribution{
				OrderID: dl.order.ID, OrderNumber: dl.order.OrderNumber, LineID: dl.line.ID, Qty: dl.qty,
			})
		}

		candidates := candidatesBySKU[sku]
		if len(candidates) == 0 {
			continue
		}
		bin := candidates[0]
		loc, err := s.locations.GetLocation(ctx, bin.LocationCode)
		if err != nil {
			return nil, err
		}

		items = append(items, model.WaveItem{
			SKU: sku, TotalQty: total, LocationCode: bin.LocationCode,
			X: loc.X, Y: loc.Y, Contributors: contributors,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].X != items[j].X {
			return items[i].X < items[j].X
		}
		return items[i].Y < items[j].Y
	})
	return items, nil
}

// CreateClusterBatch implements create_cluster_batch(order_ids, picker).
func (s *WaveService) CreateClusterBatch(ctx context.Context, orderIDs []uuid.UUID, picker string) (*model.PickBatch, error) {
	if len(orderIDs) == 0 {
		return nil, model.ErrNoOrders
	}
	batchRef := "BATCH-" + uuid.New().String()

	_, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (struct{}, error) {
		locked, err := s.orders.ListByIDsForUpdateTx(ctx, tx, orderIDs)
		if err != nil {
			return struct{}{}, err
		}
		if len(locked) != len(orderIDs) {
			return struct{}{}, fmt.Errorf("%d of %d orders not found: %w", len(orderIDs)-len(locked), len(orderIDs), model.ErrNotEligible)
		}
		for _, order := range locked {
			if order.Status != ordermodel.StatusAllocated || order.BatchReference != nil {
				return struct{}{}, model.NewNotEligibleError(order.OrderNumber)
			}
		}
		for _, order := range locked {
			if err := s.orders.AssignBatchReferenceTx(ctx, tx, order.ID, batchRef); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("cluster batch created", map[string]interface{}{"batch_reference": batchRef, "picker": picker, "order_count": len(orderIDs)})
	return &model.PickBatch{BatchReference: batchRef, Picker: picker, OrderIDs: orderIDs}, nil
}

// GetClusterTasks implements get_cluster_tasks(batch).
func (s *WaveService) GetClusterTasks(ctx context.Context, batchReference string) ([]model.ClusterTask, error) {
	orders, err := s.orders.ListByBatchReference(ctx, batchReference)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, model.ErrNoOrders
	}

	bySKU, skuOrder, err := s.collectDemand(ctx, orders)
	if err != nil {
		return nil, err
	}

	candidatesBySKU, err := s.resolveCandidates(ctx, skuOrder)
	if err != nil {
		return nil, err
	}

	var tasks []model.ClusterTask
	for _, sku := range skuOrder {
		lines := bySKU[sku]
		remaining := make([]int, len(lines))
		for i, dl := range lines {
			remaining[i] = dl.qty
		}

		candidates := candidatesBySKU[sku]

		contribIdx := 0
		for _, bin := range candidates {
			if contribIdx >= len(lines) {
				break
			}
			binTake := bin.Available()
			if binTake <= 0 {
				continue
			}

			var distributed []model.Contribution
			for binTake > 0 && contribIdx < len(lines) {
				take := remaining[contribIdx]
				if take > binTake {
					take = binTake
				}
				if take > 0 {
					distributed = append(distributed, model.Contribution{
						OrderID: lines[contribIdx].order.ID, OrderNumber: lines[contribIdx].order.OrderNumber,
						LineID: lines[contribIdx].line.ID, Qty: take,
					})
					remaining[contribIdx] -= take
					binTake -= take
				}
				if remaining[contribIdx] <= 0 {
					contribIdx++
				} else {
					break
				}
			}

			if len(distributed) == 0 {
				continue
			}
			total := 0
			for _, d := range distributed {
				total += d.Qty
			}
			tasks = append(tasks, model.ClusterTask{LocationCode: bin.LocationCode, SKU: sku, TotalQty: total, DistributeTo: distributed})
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].LocationCode < tasks[j].LocationCode })
	return tasks, nil
}

// CompleteWave implements complete_wave(order_ids).
func (s *WaveService) CompleteWave(ctx context.Context, orderIDs []uuid.UUID, actor *string) ([]model.PickOutcome, error) {
	if len(orderIDs) == 0 {
		return nil, model.ErrNoOrders
	}
	orders, err := s.orders.ListByIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	var outcomes []model.PickOutcome
	for _, order := range orders {
		if order.Status != ordermodel.StatusAllocated {
			continue
		}
		lines, err := s.orders.ListLinesForOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			remaining := line.QtyAllocated - line.QtyPicked
			if remaining <= 0 {
				continue
			}
			candidates, err := s.inventory.CandidatesForPick(ctx, line.SKU, nil, nil, invmodel.StatusAvailable)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				return nil, fmt.Errorf("%s: %w", line.SKU, model.ErrNoPickableBin)
			}
			bin := candidates[0]

			result, err := s.picker.PickOrderItem(ctx, order.OrderNumber, line.SKU, bin.LocationCode, remaining, bin.LotNumber, nil)
			if err != nil {
				return nil, err
			}
			outcomes = append(outcomes, model.PickOutcome{
				OrderNumber: order.OrderNumber, SKU: line.SKU, QtyPicked: result.QtyPicked, Status: string(result.Status),
			})
		}
	}
	return outcomes, nil
}
