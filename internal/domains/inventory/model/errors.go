package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wms-core/internal/shared/errkind"
)

var (
	// ErrInventoryNotFound: no Inventory row matches the composite key.
	ErrInventoryNotFound = fmt.Errorf("inventory row not found: %w", errkind.UnknownEntity)

	// ErrUnknownSKU: the referenced SKU isn't in the catalog.
	ErrUnknownSKU = fmt.Errorf("unknown sku: %w", errkind.UnknownEntity)

	// ErrUnknownLocation: the referenced location_code doesn't exist.
	ErrUnknownLocation = fmt.Errorf("unknown location: %w", errkind.UnknownEntity)

	// ErrNoStock: quantity < requested qty on the candidate row(s).
	ErrNoStock = fmt.Errorf("insufficient stock: %w", errkind.NoStock)

	// ErrSerialMismatch: len(serials) != qty, or a serial already exists.
	ErrSerialMismatch = fmt.Errorf("serial count does not match quantity, or serial already registered: %w", errkind.SerialMismatch)

	// ErrInvalidSerial: the named serial doesn't exist or isn't IN_STOCK
	// at the expected row.
	ErrInvalidSerial = fmt.Errorf("serial not found or not available at this location: %w", errkind.InvalidSerial)

	// ErrConflict: optimistic version check failed after retries.
	ErrConflict = fmt.Errorf("inventory row modified concurrently: %w", errkind.Conflict)
)

func NewInventoryNotFoundError(sku, location string, lot *string, status Status) error {
	lotStr := "none"
	if lot != nil {
		lotStr = *lot
	}
	return fmt.Errorf("%w: sku=%s location=%s lot=%s status=%s", ErrInventoryNotFound, sku, location, lotStr, status)
}

func NewUnknownSKUError(sku string) error {
	return fmt.Errorf("%w: sku=%s", ErrUnknownSKU, sku)
}

func NewUnknownLocationError(location string) error {
	return fmt.Errorf("%w: location=%s", ErrUnknownLocation, location)
}

func NewNoStockError(sku, location string, requested, available int) error {
	return fmt.Errorf("%w: sku=%s location=%s requested=%d available=%d", ErrNoStock, sku, location, requested, available)
}

func NewSerialMismatchError(detail string) error {
	return fmt.Errorf("%w: %s", ErrSerialMismatch, detail)
}

func NewInvalidSerialError(serial string) error {
	return fmt.Errorf("%w: serial=%s", ErrInvalidSerial, serial)
}

func NewConflictError(id uuid.UUID, attempts int) error {
	return fmt.Errorf("%w: inventory_id=%s attempts=%d", ErrConflict, id, attempts)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, errkind.UnknownEntity)
}

func IsNoStockError(err error) bool {
	return errors.Is(err, errkind.NoStock)
}

func IsConflictError(err error) bool {
	return errors.Is(err, errkind.Conflict)
}

func IsSerialError(err error) bool {
	return errors.Is(err, errkind.SerialMismatch) || errors.Is(err, errkind.InvalidSerial)
}
