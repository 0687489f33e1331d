// Package model holds the Order/OrderLine aggregate driven through
// PENDING → ALLOCATED → PICKED → PACKED → SHIPPED by the Allocation Engine
// and Order Pipeline.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the order's position in the fulfillment state machine.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAllocated Status = "ALLOCATED"
	StatusPicked    Status = "PICKED"
	StatusPacked    Status = "PACKED"
	StatusShipped   Status = "SHIPPED"
)

// Order is the header aggregate. Its status only ever advances forward,
// except for short_pick's possible PICKED/ALLOCATED → PENDING reversion.
type Order struct {
	ID             uuid.UUID `db:"id"`
	OrderNumber    string    `db:"order_number"`
	CustomerName   string    `db:"customer_name"`
	CustomerEmail  string    `db:"customer_email"`
	AddressSnap    string    `db:"address_snapshot"`
	Status         Status    `db:"status"`
	IsOnHold       bool      `db:"is_on_hold"`
	Priority       int       `db:"priority"`
	BatchReference *string   `db:"batch_reference"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAllocated, StatusPicked, StatusPacked, StatusShipped:
		return true
	}
	return false
}

// IsTerminal reports whether the order has shipped and can no longer
// transition.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusShipped
}

// OrderLine belongs to an Order and references one Item by SKU.
// Invariant: 0 ≤ qty_picked ≤ qty_allocated ≤ qty_ordered.
type OrderLine struct {
	ID           uuid.UUID `db:"id"`
	OrderID      uuid.UUID `db:"order_id"`
	SKU          string    `db:"sku"`
	QtyOrdered   int       `db:"qty_ordered"`
	QtyAllocated int       `db:"qty_allocated"`
	QtyPicked    int       `db:"qty_picked"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// QtyNeeded is the outstanding amount this line still needs reserved.
func (l *OrderLine) QtyNeeded() int {
	return l.QtyOrdered - l.QtyAllocated
}

// FullyAllocated reports whether every ordered unit has a reservation.
func (l *OrderLine) FullyAllocated() bool {
	return l.QtyAllocated >= l.QtyOrdered
}

// FullyPicked reports whether every ordered unit has been physically
// picked.
func (l *OrderLine) FullyPicked() bool {
	return l.QtyPicked >= l.QtyOrdered
}

// LineAllocationResult is the per-line payload allocate() returns,
// supplementing the bare {status} response with {sku, ordered, allocated}
// so callers can poll partial-allocation outcomes without a second read.
type LineAllocationResult struct {
	SKU       string `json:"sku"`
	Ordered   int    `json:"ordered"`
	Allocated int    `json:"allocated"`
}

// AllocationResult is allocate()'s full return payload.
type AllocationResult struct {
	Status Status                 `json:"status"`
	Lines  []LineAllocationResult `json:"lines"`
}

// PickResult is pick_order_item()'s return payload: it carries the order's
// current status even when unchanged so callers can poll without a second
// read.
type PickResult struct {
	LineID    uuid.UUID `json:"line_id"`
	QtyPicked int       `json:"qty_picked"`
	Status    Status    `json:"status"`
}
