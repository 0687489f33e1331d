// Package model holds the PurchaseOrder aggregate: the inbound counterpart
// to Order, reconciled line-by-line as stock is physically received.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusOrdered  Status = "ORDERED"
	StatusReceived Status = "RECEIVED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusReceived:
		return true
	}
	return false
}

// PurchaseOrder tracks a supplier order against which receipts are posted.
// Status is derived from the sum of its lines, never set directly:
// DRAFT/ORDERED while any line has received < ordered, RECEIVED once every
// line's received >= ordered.
type PurchaseOrder struct {
	ID        uuid.UUID `db:"id"`
	PONumber  string    `db:"po_number"`
	Status    Status    `db:"status"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Line is one SKU on a PurchaseOrder. QtyReceived is not capped at
// QtyOrdered: over-receipt is permitted and surfaced to the caller rather
// than rejected.
type Line struct {
	ID          uuid.UUID `db:"id"`
	POID        uuid.UUID `db:"po_id"`
	SKU         string    `db:"sku"`
	QtyOrdered  int       `db:"qty_ordered"`
	QtyReceived int       `db:"qty_received"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// LineProgress is the {sku, ordered, received} payload receive_po_item
// returns alongside the PO's recomputed status.
type LineProgress struct {
	SKU      string
	Ordered  int
	Received int
}

// ReceiveResult is receive_po_item's success payload.
type ReceiveResult struct {
	PONumber     string
	Status       Status
	LineProgress LineProgress
}
