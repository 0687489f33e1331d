// Package model holds the Location entity: the physical buckets stock can
// occupy, and the pick-face replenishment configuration bound to them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationType classifies how a location participates in picking/storage.
type LocationType string

const (
	LocationTypePick    LocationType = "PICK"
	LocationTypeReserve LocationType = "RESERVE"
	LocationTypeDock    LocationType = "DOCK"
	LocationTypeStaging LocationType = "STAGING"
)

func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypePick, LocationTypeReserve, LocationTypeDock, LocationTypeStaging:
		return true
	}
	return false
}

// Location is a physical bucket: a unique code, a type, a zone label, and a
// grid coordinate used for walk-path ordering during wave planning.
type Location struct {
	ID           uuid.UUID    `db:"id"`
	LocationCode string       `db:"location_code"`
	Type         LocationType `db:"type"`
	Zone         string       `db:"zone"`
	X            int          `db:"x"`
	Y            int          `db:"y"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// Configuration binds an Item to a pick-face location with replenishment
// trigger/target bounds. Drives the Replenishment Engine.
type Configuration struct {
	ID           uuid.UUID `db:"id"`
	SKU          string    `db:"sku"`
	LocationCode string    `db:"location_code"`
	MinQty       int       `db:"min_qty"`
	MaxQty       int       `db:"max_qty"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
