// Package model holds the TransactionLog entity: the append-only audit
// trail every mutating inventory operation writes to exactly once.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of stock movement a journal row records.
type Action string

const (
	ActionReceive Action = "RECEIVE"
	ActionPick    Action = "PICK"
	ActionAdjust  Action = "ADJUST"
	ActionPack    Action = "PACK"
	ActionShip    Action = "SHIP"
	ActionMove    Action = "MOVE"
)

// Entry is a single append-only journal row. Entries are never updated or
// deleted once written.
type Entry struct {
	ID               uuid.UUID `db:"id"`
	Timestamp        time.Time `db:"created_at"`
	Action           Action    `db:"action"`
	SKUSnapshot      string    `db:"sku_snapshot"`
	LocationSnapshot string    `db:"location_snapshot"`
	QuantityChange   int       `db:"quantity_change"`
	LotSnapshot      *string   `db:"lot_snapshot"`
	Actor            *string   `db:"actor"`
}

// NewMoveLocationSnapshot formats the location_snapshot literal the spec
// mandates for MOVE entries: "<src> > <dst>".
func NewMoveLocationSnapshot(src, dst string) string {
	return src + " > " + dst
}
