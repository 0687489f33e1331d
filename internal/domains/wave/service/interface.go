package service

import (
	"context"

	"github.com/google/uuid"

	"wms-core/internal/domains/wave/model"
)

// ServiceInterface is the Wave & Cluster Picker's public contract.
type ServiceInterface interface {
	// WavePlan implements wave_plan(order_ids): aggregates outstanding pick
	// demand per SKU across eligible orders, sorted by (x, y) to
	// approximate a left-to-right serpentine walk path.
	WavePlan(ctx context.Context, orderIDs []uuid.UUID) ([]model.WaveItem, error)

	// CreateClusterBatch implements create_cluster_batch(order_ids,
	// picker): atomically links every named order under one batch
	// reference, failing entirely if any order is ineligible.
	CreateClusterBatch(ctx context.Context, orderIDs []uuid.UUID, picker string) (*model.PickBatch, error)

	// GetClusterTasks implements get_cluster_tasks(batch): aggregates SKU
	// demand across a batch's orders, resolves physical bins FEFO, and
	// splits each bin's take across contributing lines in encounter order.
	GetClusterTasks(ctx context.Context, batchReference string) ([]model.ClusterTask, error)

	// CompleteWave implements complete_wave(order_ids): a convenience
	// bulk-pick assuming perfect execution, drawing each line's full
	// allocated-but-unpicked quantity from its first AVAILABLE bin.
	CompleteWave(ctx context.Context, orderIDs []uuid.UUID, actor *string) ([]model.PickOutcome, error)
}
