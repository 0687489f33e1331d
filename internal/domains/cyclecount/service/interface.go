package service

import (
	"context"

	"github.com/google/uuid"

	"wms-core/internal/domains/cyclecount/model"
)

// ServiceInterface is the Cycle Count Engine's public contract: sampling a
// session's worth of tasks (random or location-scoped), and reconciling a
// single counted task against live inventory.
type ServiceInterface interface {
	// CreateRandom implements create_random(aisle_prefix?, limit): samples
	// up to limit inventory rows, optionally scoped to a location prefix,
	// and opens an IN_PROGRESS session with one PENDING task per row.
	CreateRandom(ctx context.Context, locationPrefix *string, limit int, deviceID *string) (*model.Session, []model.Task, error)

	// CreateForLocation implements create_for_location(loc): one task per
	// row currently at the named location.
	CreateForLocation(ctx context.Context, locationCode string, deviceID *string) (*model.Session, []model.Task, error)

	// SubmitCount implements submit_count(task_id, counted_qty): variance
	// is computed against the LIVE inventory quantity at submit time, not
	// the task's expected_qty snapshot. A non-zero variance triggers an
	// inventory adjust() so the count becomes the new quantity of record.
	SubmitCount(ctx context.Context, taskID uuid.UUID, countedQty int, actor *string) (*model.Task, error)
}
