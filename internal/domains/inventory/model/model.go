// Package model holds the Inventory Store's core entities: the stock row
// keyed by (sku, location, lot, status), and the optional per-unit
// SerialNumber that rides alongside serialized items.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the Inventory row's stock condition. Only AVAILABLE rows
// participate in allocation.
type Status string

const (
	StatusAvailable  Status = "AVAILABLE"
	StatusQuarantine Status = "QUARANTINE"
	StatusDamaged    Status = "DAMAGED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusQuarantine, StatusDamaged:
		return true
	}
	return false
}

// Inventory is a stock row. Its composite identity is
// (sku, location_code, lot_number, status); lot_number may be null.
// reserved_quantity is the running total held by ALLOCATED order lines;
// version is the optimistic concurrency token, strictly increasing on
// every committed mutation.
type Inventory struct {
	ID               uuid.UUID  `db:"id"`
	SKU              string     `db:"sku"`
	LocationCode     string     `db:"location_code"`
	LotNumber        *string    `db:"lot_number"`
	Status           Status     `db:"status"`
	Quantity         int        `db:"quantity"`
	ReservedQuantity int        `db:"reserved_quantity"`
	ExpiryDate       *time.Time `db:"expiry_date"`
	Version          int        `db:"version"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// Available is the quantity an allocation may still draw from this row.
func (i Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}

// SerialStatus is a per-unit serial's lifecycle stage.
type SerialStatus string

const (
	SerialInStock  SerialStatus = "IN_STOCK"
	SerialPacked   SerialStatus = "PACKED"
	SerialShipped  SerialStatus = "SHIPPED"
	SerialReturned SerialStatus = "RETURNED"
)

// SerialNumber tracks one physical unit of a serialized item. While
// IN_STOCK it belongs to an Inventory row at a location; once picked it
// transitions to PACKED and is linked to the OrderLine it fulfills.
type SerialNumber struct {
	Serial       string       `db:"serial"`
	SKU          string       `db:"sku"`
	LocationCode string       `db:"location_code"`
	InventoryID  *uuid.UUID   `db:"inventory_id"`
	OrderLineID  *uuid.UUID   `db:"order_line_id"`
	Status       SerialStatus `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// MovementReason documents why adjust() changed a row's quantity outside
// the normal receive/pick/move paths (e.g. cycle count reconciliation,
// damage write-off).
type MovementReason string
