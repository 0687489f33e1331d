package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	invservice "wms-core/internal/domains/inventory/service"
	locmodel "wms-core/internal/domains/location/model"
	"wms-core/internal/domains/replenishment/model"
	"wms-core/internal/domains/replenishment/repository"
	"wms-core/pkg/cache"
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

// inventoryAccess is the narrow inventory collaborator the scan and the
// completion step need: reading a SKU's rows and moving stock between them.
// MoveTx takes the caller's tx so the movement and the task's own status
// bookkeeping commit or roll back together, per spec.md §5's
// single-transaction rule.
type inventoryAccess interface {
	ListForSKU(ctx context.Context, sku string) ([]invmodel.Inventory, error)
	MoveTx(ctx context.Context, tx pgx.Tx, sku, src, dst string, qty int, actor *string) (*invservice.MoveResult, error)
}

// locationAccess is the narrow location collaborator: the set of pick-face
// replenishment configurations the scan iterates.
type locationAccess interface {
	ListReplenishmentConfigs(ctx context.Context) ([]locmodel.Configuration, error)
}

const generateLockKey = "replenishment:generate:lock"
const generateLockTTL = 5 * time.Second

type ReplenishmentService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	location  locationAccess
	inventory inventoryAccess
	cache     cache.Cache
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, location locationAccess, inventory inventoryAccess, c cache.Cache) ServiceInterface {
	return &ReplenishmentService{tx: poolTxRunner{pool: pool}, repo: repo, location: location, inventory: inventory, cache: c}
}

// GenerateReplenishmentTasks implements generate_replenishment_tasks(). A
// short Redis lock brackets the whole scan to keep two concurrent cron
// firings from scanning at once. The lock is an Exists check followed by a
// Set, not an atomic operation, so two firings that check at the same moment
// can both proceed; the Postgres PENDING-task dedup check is the main guard
// and this lock is only a best-effort pre-check.
func (s *ReplenishmentService) GenerateReplenishmentTasks(ctx context.Context) ([]model.Task, error) {
	locked, err := s.acquireScanLock(ctx)
	if err != nil {
		return nil, err
	}
	if !locked {
		logger.Info("replenishment scan skipped, already in progress", nil)
		return nil, nil
	}
	defer s.cache.Delete(ctx, generateLockKey)

	configs, err := s.location.ListReplenishmentConfigs(ctx)
	if err != nil {
		return nil, err
	}

	var created []model.Task
	for _, cfg := range configs {
		task, err := s.evaluateConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if task != nil {
			created = append(created, *task)
		}
	}
	return created, nil
}

func (s *ReplenishmentService) acquireScanLock(ctx context.Context) (bool, error) {
	exists, err := s.cache.Exists(ctx, generateLockKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.cache.Set(ctx, generateLockKey, "1", generateLockTTL); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReplenishmentService) evaluateConfig(ctx context.Context, cfg locmodel.Configuration) (*model.Task, error) {
	rows, err := s.inventory.ListForSKU(ctx, cfg.SKU)
	if err != nil {
		return nil, err
	}

	current := 0
	var bestReserve *invmodel.Inventory
	for i := range rows {
		row := rows[i]
		if row.Status != invmodel.StatusAvailable {
			continue
		}
		if row.LocationCode == cfg.LocationCode {
			current += row.Available()
			continue
		}
		if row.Quantity <= 0 {
			continue
		}
		if bestReserve == nil || row.Quantity > bestReserve.Quantity {
			r := row
			bestReserve = &r
		}
	}

	if current >= cfg.MinQty {
		return nil, nil
	}

	exists, err := s.repo.PendingTaskExists(ctx, cfg.SKU, cfg.LocationCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	if bestReserve == nil {
		logger.Info("replenishment short of reserve stock", map[string]interface{}{"sku": cfg.SKU, "location": cfg.LocationCode})
		return nil, nil
	}

	qtyToMove := cfg.MaxQty - current
	if bestReserve.Quantity < qtyToMove {
		qtyToMove = bestReserve.Quantity
	}
	if qtyToMove <= 0 {
		return nil, nil
	}

	task, err := s.repo.CreateTask(ctx, cfg.SKU, bestReserve.LocationCode, cfg.LocationCode, qtyToMove)
	if err != nil {
		return nil, err
	}
	logger.Info("replenishment task created", map[string]interface{}{
		"sku": cfg.SKU, "source": bestReserve.LocationCode, "dest": cfg.LocationCode, "qty": qtyToMove,
	})
	return task, nil
}

// CompleteReplenishment implements complete_replenishment(task).
func (s *ReplenishmentService) CompleteReplenishment(ctx context.Context, taskID uuid.UUID, actor *string) (*model.Task, error) {
	return runTxResult(ctx, s.tx, func(tx pgx.Tx) (*model.Task, error) {
		task, err := s.repo.GetTaskForUpdate(ctx, tx, taskID)
		if err != nil {
			return nil, err
		}
		if task.Status != model.StatusPending {
			return nil, model.ErrInvalidState
		}

		if _, err := s.inventory.MoveTx(ctx, tx, task.SKU, task.SourceLocation, task.DestLocation, task.QtyToMove, actor); err != nil {
			return nil, err
		}

		if err := s.repo.CompleteTaskTx(ctx, tx, taskID); err != nil {
			return nil, err
		}
		task.Status = model.StatusCompleted
		logger.Info("replenishment task completed", map[string]interface{}{"task_id": taskID.String(), "sku": task.SKU})
		return task, nil
	})
}
