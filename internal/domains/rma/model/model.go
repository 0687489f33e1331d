// Package model holds the RMA aggregate: a customer return intake,
// restocked into quarantine on receipt.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReceived Status = "RECEIVED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived:
		return true
	}
	return false
}

// DefaultIntakeLocation is where process_return_receipt restocks lines
// when the caller doesn't name a location.
const DefaultIntakeLocation = "RETURNS-DOCK"

type RMA struct {
	ID        uuid.UUID `db:"id"`
	RMANumber string    `db:"rma_number"`
	Status    Status    `db:"status"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Line is one SKU on an RMA. QtyReceived is set by
// process_return_receipt, equal to QtyToReturn on success.
type Line struct {
	ID           uuid.UUID `db:"id"`
	RMAID        uuid.UUID `db:"rma_id"`
	SKU          string    `db:"sku"`
	QtyToReturn  int       `db:"qty_to_return"`
	QtyReceived  int       `db:"qty_received"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// LineReceipt is the {sku, qty_received} payload per line returned by
// process_return_receipt.
type LineReceipt struct {
	SKU         string
	QtyReceived int
}

// ReceiptResult is process_return_receipt's success payload.
type ReceiptResult struct {
	RMANumber string
	Status    Status
	Location  string
	Lines     []LineReceipt
}
