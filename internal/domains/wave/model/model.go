// Package model holds the Wave & Cluster Picker's read-side aggregates. A
// wave/cluster batch is not its own persisted entity: a PickBatch is simply
// the set of orders sharing one Order.BatchReference value, and a wave plan
// is a point-in-time projection over ALLOCATED orders — nothing here is
// written back except the batch reference assignment itself.
package model

import "github.com/google/uuid"

// Contribution is one order line's share of an aggregated SKU demand.
type Contribution struct {
	OrderID     uuid.UUID
	OrderNumber string
	LineID      uuid.UUID
	Qty         int
}

// WaveItem is wave_plan's per-SKU aggregate: total outstanding pick demand
// across contributing orders, plus the representative pick location.
type WaveItem struct {
	SKU          string
	TotalQty     int
	LocationCode string
	X            int
	Y            int
	Contributors []Contribution
}

// PickBatch is create_cluster_batch's return payload.
type PickBatch struct {
	BatchReference string
	Picker         string
	OrderIDs       []uuid.UUID
}

// ClusterTask is get_cluster_tasks' per-bin unit of work: one physical bin,
// the quantity to draw from it, and how that quantity splits across the
// order lines it satisfies.
type ClusterTask struct {
	LocationCode string
	SKU          string
	TotalQty     int
	DistributeTo []Contribution
}

// PickOutcome is complete_wave's per-line result.
type PickOutcome struct {
	OrderNumber string
	SKU         string
	QtyPicked   int
	Status      string
}
