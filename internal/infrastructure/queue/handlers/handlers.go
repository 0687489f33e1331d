// Package handlers implements the asynq task handlers this core's worker
// registers: one per cron job the scheduler enqueues.
package handlers

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	catalogservice "wms-core/internal/domains/catalog/service"
	replenishmentservice "wms-core/internal/domains/replenishment/service"
	"wms-core/internal/infrastructure/queue"
	"wms-core/pkg/logger"
)

// GenerateReplenishmentHandler runs generate_replenishment_tasks() on the
// scheduled scan and logs the outcome; the task itself is idempotent
// (guarded by the per-SKU/dest PENDING-task check), so a retried delivery
// is harmless.
func GenerateReplenishmentHandler(svc replenishmentservice.ServiceInterface) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		tasks, err := svc.GenerateReplenishmentTasks(ctx)
		if err != nil {
			return err
		}
		logger.Info("replenishment scan complete", map[string]interface{}{"tasks_opened": len(tasks)})
		return nil
	}
}

// ClassifyABCHandler runs classify_abc() over the trailing window carried
// in the task payload.
func ClassifyABCHandler(svc catalogservice.ServiceInterface) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p queue.ClassifyABCPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return asynq.SkipRetry
		}
		if p.SinceDays <= 0 {
			p.SinceDays = 30
		}

		counts, err := svc.ClassifyABC(ctx, p.SinceDays)
		if err != nil {
			return err
		}
		logger.Info("abc classification complete", map[string]interface{}{"since_days": p.SinceDays, "class_counts": counts})
		return nil
	}
}
