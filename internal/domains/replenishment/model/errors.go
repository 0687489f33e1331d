package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrTaskNotFound = fmt.Errorf("replenishment task not found: %w", errkind.UnknownEntity)
	ErrInvalidState = fmt.Errorf("replenishment task not PENDING: %w", errkind.InvalidState)
	ErrNoReserve    = fmt.Errorf("no reserve stock to draw from: %w", errkind.NoStock)
)

func NewTaskNotFoundError(taskID fmt.Stringer) error {
	return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
}

func IsNotFoundError(err error) bool     { return errors.Is(err, errkind.UnknownEntity) }
func IsInvalidStateError(err error) bool { return errors.Is(err, errkind.InvalidState) }
func IsNoStockError(err error) bool      { return errors.Is(err, errkind.NoStock) }
