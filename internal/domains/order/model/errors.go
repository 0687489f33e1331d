package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wms-core/internal/shared/errkind"
)

var (
	ErrOrderNotFound = fmt.Errorf("order not found: %w", errkind.UnknownEntity)
	ErrLineNotFound  = fmt.Errorf("order line not found: %w", errkind.UnknownEntity)
	ErrInvalidState  = fmt.Errorf("order not in required state: %w", errkind.InvalidState)
	ErrOverPick      = fmt.Errorf("pick quantity exceeds allocated quantity: %w", errkind.OverPick)
	ErrConflict      = fmt.Errorf("order row changed concurrently: %w", errkind.Conflict)
)

func NewOrderNotFoundError(orderNumber string) error {
	return fmt.Errorf("order %q: %w", orderNumber, ErrOrderNotFound)
}

func NewInvalidStateError(orderNumber string, have, want Status) error {
	return fmt.Errorf("order %q is %s, requires %s: %w", orderNumber, have, want, ErrInvalidState)
}

func NewOverPickError(sku string, requested, remaining int) error {
	return fmt.Errorf("sku %q: picking %d exceeds %d allocated-but-unpicked: %w", sku, requested, remaining, ErrOverPick)
}

func NewConflictError(orderID uuid.UUID) error {
	return fmt.Errorf("order %s: %w", orderID, ErrConflict)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, errkind.UnknownEntity)
}

func IsInvalidStateError(err error) bool {
	return errors.Is(err, errkind.InvalidState)
}

func IsOverPickError(err error) bool {
	return errors.Is(err, errkind.OverPick)
}

func IsConflictError(err error) bool {
	return errors.Is(err, errkind.Conflict)
}
