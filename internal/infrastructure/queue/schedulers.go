package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"wms-core/internal/config"
	"wms-core/pkg/logger"
)

// Scheduler registers the cron entries that feed asynq's task queue. The
// handlers that actually run the jobs live under
// internal/infrastructure/queue/handlers, wired up in cmd/worker against
// this package's task-type constants.
type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.QueueConfig
}

func NewScheduler(cfg config.QueueConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler, cfg: cfg}
}

// RegisterJobs wires every cron entry this core runs.
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerGenerateReplenishmentJob(); err != nil {
		return err
	}
	if err := s.registerClassifyABCJob(); err != nil {
		return err
	}
	return nil
}

// registerGenerateReplenishmentJob scans every pick-face configuration for
// a min-qty breach and opens replenishment tasks, per spec.md §4.5.
func (s *Scheduler) registerGenerateReplenishmentJob() error {
	task := asynq.NewTask(TypeGenerateReplenishment, nil)

	_, err := s.scheduler.Register(
		s.cfg.ReplenishmentCron,
		task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register generate-replenishment job", err)
		return err
	}
	logger.Info("registered generate-replenishment job", map[string]interface{}{"cron": s.cfg.ReplenishmentCron})
	return nil
}

// registerClassifyABCJob re-ranks every item's ABC class over a trailing
// 30-day outbound velocity window, per spec.md §4.7.
func (s *Scheduler) registerClassifyABCJob() error {
	payload, err := json.Marshal(ClassifyABCPayload{SinceDays: 30})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeClassifyABC, payload)

	_, err = s.scheduler.Register(
		s.cfg.ABCClassificationCron,
		task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register classify-abc job", err)
		return err
	}
	logger.Info("registered classify-abc job", map[string]interface{}{"cron": s.cfg.ABCClassificationCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
