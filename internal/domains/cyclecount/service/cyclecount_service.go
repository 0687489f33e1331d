package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invmodel "wms-core/internal/domains/inventory/model"
	"wms-core/internal/domains/cyclecount/model"
	"wms-core/internal/domains/cyclecount/repository"
	"wms-core/pkg/database"
	"wms-core/pkg/logger"
)

// txRunner mirrors the inventory and order domains' testability seam.
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

// inventoryAccess is the narrow inventory surface submit_count needs: the
// live, locked quantity to compare against the count, and adjustTx() to
// reconcile a non-zero variance within the same transaction that holds the
// row lock, so the count and the reconciling quantity write commit or roll
// back together.
type inventoryAccess interface {
	GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invmodel.Inventory, error)
	AdjustTx(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, newQty int, reason string, actor *string) (*invmodel.Inventory, error)
}

type CycleCountService struct {
	tx        txRunner
	repo      repository.RepositoryInterface
	inventory inventoryAccess
}

func NewService(pool *pgxpool.Pool, repo repository.RepositoryInterface, inventory inventoryAccess) ServiceInterface {
	return &CycleCountService{tx: poolTxRunner{pool: pool}, repo: repo, inventory: inventory}
}

// CreateRandom implements create_random(aisle_prefix?, limit).
func (s *CycleCountService) CreateRandom(ctx context.Context, locationPrefix *string, limit int, deviceID *string) (*model.Session, []model.Task, error) {
	if limit <= 0 {
		return nil, nil, fmt.Errorf("limit must be positive")
	}
	rows, err := s.repo.RandomInventoryRows(ctx, locationPrefix, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, model.ErrEmpty
	}
	return s.createSessionWithTasks(ctx, fmt.Sprintf("CC-RAND-%s", uuid.New().String()[:8]), deviceID, rows)
}

// CreateForLocation implements create_for_location(loc).
func (s *CycleCountService) CreateForLocation(ctx context.Context, locationCode string, deviceID *string) (*model.Session, []model.Task, error) {
	rows, err := s.repo.InventoryRowsAtLocation(ctx, locationCode)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, model.ErrEmpty
	}
	return s.createSessionWithTasks(ctx, fmt.Sprintf("CC-LOC-%s-%s", locationCode, uuid.New().String()[:8]), deviceID, rows)
}

func (s *CycleCountService) createSessionWithTasks(ctx context.Context, reference string, deviceID *string, rows []invmodel.Inventory) (*model.Session, []model.Task, error) {
	type created struct {
		session *model.Session
		tasks   []model.Task
	}
	out, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (created, error) {
		session, err := s.repo.CreateSessionTx(ctx, tx, reference, deviceID)
		if err != nil {
			return created{}, err
		}
		tasks := make([]model.Task, 0, len(rows))
		for _, row := range rows {
			task, err := s.repo.CreateTaskTx(ctx, tx, session.ID, row.ID, row.Quantity)
			if err != nil {
				return created{}, err
			}
			tasks = append(tasks, *task)
		}
		return created{session: session, tasks: tasks}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("cycle count session created", map[string]interface{}{"reference": reference, "task_count": len(out.tasks)})
	return out.session, out.tasks, nil
}

// SubmitCount implements submit_count(task_id, counted_qty). The task must
// be PENDING. Variance compares counted_qty against the inventory row's
// LIVE quantity, locked for the rest of this transaction so a concurrent
// pick or receive can't race the comparison, never the expected_qty
// snapshot taken at task creation — a legitimate movement between session
// creation and the physical count isn't mistaken for shrinkage. A non-zero
// variance reconciles the same locked row via inventory's adjustTx() inside
// this transaction, so the count and the reconciling write commit or roll
// back together.
func (s *CycleCountService) SubmitCount(ctx context.Context, taskID uuid.UUID, countedQty int, actor *string) (*model.Task, error) {
	type submitted struct {
		task      *model.Task
		variance  int
		sessionID uuid.UUID
	}

	out, err := runTxResult(ctx, s.tx, func(tx pgx.Tx) (submitted, error) {
		task, err := s.repo.GetTaskForUpdate(ctx, tx, taskID)
		if err != nil {
			return submitted{}, err
		}
		if task.Status != model.TaskPending {
			return submitted{}, fmt.Errorf("task %s not PENDING: %w", taskID, model.ErrInvalidState)
		}

		current, err := s.inventory.GetByIDForUpdateTx(ctx, tx, task.InventoryID)
		if err != nil {
			return submitted{}, err
		}
		variance := countedQty - current.Quantity

		if err := s.repo.SubmitCountTx(ctx, tx, taskID, countedQty, variance); err != nil {
			return submitted{}, err
		}

		if variance != 0 {
			if _, err := s.inventory.AdjustTx(ctx, tx, task.InventoryID, countedQty, "cycle_count_variance", actor); err != nil {
				return submitted{}, err
			}
		}

		task.CountedQty = &countedQty
		task.Variance = &variance
		task.Status = model.TaskCounted

		return submitted{task: task, variance: variance, sessionID: task.SessionID}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.completeSessionIfDrained(ctx, out.sessionID); err != nil {
		return nil, err
	}

	logger.Info("cycle count submitted", map[string]interface{}{"task_id": taskID.String(), "variance": out.variance})
	return out.task, nil
}

// completeSessionIfDrained marks the session COMPLETED once every task it
// owns has been counted.
func (s *CycleCountService) completeSessionIfDrained(ctx context.Context, sessionID uuid.UUID) error {
	return s.tx.RunTx(ctx, func(tx pgx.Tx) error {
		remaining, err := s.repo.CountPendingTasks(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		return s.repo.CompleteSessionTx(ctx, tx, sessionID)
	})
}
