// Package model holds the Replenishment Planner's single entity: a task
// moving stock from a reserve row onto a pick face once it runs low.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is a ReplenishmentTask's lifecycle stage.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Task is (item, source_location, dest_location, qty_to_move, status).
// Dedup key is (SKU, DestLocation, PENDING): generate_replenishment_tasks
// never opens a second PENDING task for a pick face already queued.
type Task struct {
	ID             uuid.UUID `db:"id"`
	SKU            string    `db:"sku"`
	SourceLocation string    `db:"source_location"`
	DestLocation   string    `db:"dest_location"`
	QtyToMove      int       `db:"qty_to_move"`
	Status         Status    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
