package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	// ErrItemNotFound is returned when a SKU is not present in the catalog.
	ErrItemNotFound = fmt.Errorf("item not found: %w", errkind.UnknownEntity)

	// ErrItemExists is returned when creating a SKU that already exists.
	ErrItemExists = errors.New("item with this sku already exists")

	// ErrItemReferenced is returned when deleting an item still referenced
	// by an Order line or Inventory row.
	ErrItemReferenced = fmt.Errorf("item is referenced by open orders or inventory and cannot be deleted: %w", errkind.InvalidState)

	// ErrInvalidAttributes is returned when the attribute bag cannot be
	// scanned back out of its JSON column.
	ErrInvalidAttributes = errors.New("invalid attributes payload")
)

func NewItemNotFoundError(sku string) error {
	return fmt.Errorf("%w: sku=%s", ErrItemNotFound, sku)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, errkind.UnknownEntity)
}
