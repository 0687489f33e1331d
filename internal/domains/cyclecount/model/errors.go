package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrSessionNotFound = fmt.Errorf("cycle count session not found: %w", errkind.UnknownEntity)
	ErrTaskNotFound    = fmt.Errorf("cycle count task not found: %w", errkind.UnknownEntity)
	ErrInvalidState    = fmt.Errorf("cycle count task not PENDING: %w", errkind.InvalidState)
	ErrEmpty           = fmt.Errorf("no eligible inventory rows to count: %w", errkind.Empty)
)

func NewTaskNotFoundError(taskID fmt.Stringer) error {
	return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
}

func IsNotFoundError(err error) bool { return errors.Is(err, errkind.UnknownEntity) }
func IsEmptyError(err error) bool    { return errors.Is(err, errkind.Empty) }
func IsInvalidStateError(err error) bool {
	return errors.Is(err, errkind.InvalidState)
}
