// Package model holds the Cycle Count Engine's session/task aggregate:
// periodic or ad-hoc physical counts reconciled against live inventory
// quantity.
package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskCounted TaskStatus = "COUNTED"
)

// SystemErrorSessionReference is the session reference short_pick groups
// its system-raised discrepancy tasks under.
const SystemErrorSessionReference = "SYS-ERR"

type Session struct {
	ID        uuid.UUID     `db:"id"`
	Reference string        `db:"reference"`
	Status    SessionStatus `db:"status"`
	DeviceID  *string       `db:"device_id"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// Task belongs to a Session and snapshots expected_qty at creation time;
// variance is computed against the LIVE quantity at submit time, never
// against this snapshot, so concurrent legitimate picks aren't mistaken
// for shrinkage.
type Task struct {
	ID          uuid.UUID  `db:"id"`
	SessionID   uuid.UUID  `db:"session_id"`
	InventoryID uuid.UUID  `db:"inventory_id"`
	ExpectedQty int        `db:"expected_qty"`
	CountedQty  *int       `db:"counted_qty"`
	Variance    *int       `db:"variance"`
	Status      TaskStatus `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
