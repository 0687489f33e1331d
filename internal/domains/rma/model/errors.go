package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrRMANotFound       = fmt.Errorf("rma not found: %w", errkind.UnknownEntity)
	ErrAlreadyProcessed  = fmt.Errorf("rma already received: %w", errkind.AlreadyProcessed)
	ErrConflict          = fmt.Errorf("rma modified concurrently: %w", errkind.Conflict)
)

func NewRMANotFoundError(rmaNumber string) error {
	return fmt.Errorf("%w: rma_number=%s", ErrRMANotFound, rmaNumber)
}

func NewAlreadyProcessedError(rmaNumber string) error {
	return fmt.Errorf("%w: rma_number=%s", ErrAlreadyProcessed, rmaNumber)
}

func NewConflictError(rmaNumber string) error {
	return fmt.Errorf("%w: rma_number=%s", ErrConflict, rmaNumber)
}

func IsNotFoundError(err error) bool        { return errors.Is(err, errkind.UnknownEntity) }
func IsAlreadyProcessedError(err error) bool { return errors.Is(err, errkind.AlreadyProcessed) }
func IsConflictError(err error) bool        { return errors.Is(err, errkind.Conflict) }
