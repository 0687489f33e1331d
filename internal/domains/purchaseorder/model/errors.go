package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrPONotFound   = fmt.Errorf("purchase order not found: %w", errkind.UnknownEntity)
	ErrLineNotFound = fmt.Errorf("purchase order line not found: %w", errkind.UnknownEntity)
	ErrConflict     = fmt.Errorf("purchase order modified concurrently: %w", errkind.Conflict)
)

func NewPONotFoundError(poNumber string) error {
	return fmt.Errorf("%w: po_number=%s", ErrPONotFound, poNumber)
}

func NewLineNotFoundError(poNumber, sku string) error {
	return fmt.Errorf("%w: po_number=%s sku=%s", ErrLineNotFound, poNumber, sku)
}

func NewConflictError(poNumber string) error {
	return fmt.Errorf("%w: po_number=%s", ErrConflict, poNumber)
}

func IsNotFoundError(err error) bool { return errors.Is(err, errkind.UnknownEntity) }
func IsConflictError(err error) bool { return errors.Is(err, errkind.Conflict) }
