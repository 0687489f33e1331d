package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrLocationNotFound = fmt.Errorf("location not found: %w", errkind.UnknownEntity)

	ErrLocationExists = errors.New("location with this code already exists")

	ErrInvalidLocationType = errors.New("invalid location type")

	// ErrConfigurationNotFound is returned when no replenishment
	// configuration exists for a (sku, location_code) pair.
	ErrConfigurationNotFound = fmt.Errorf("location configuration not found: %w", errkind.UnknownEntity)
)

func NewLocationNotFoundError(code string) error {
	return fmt.Errorf("%w: location_code=%s", ErrLocationNotFound, code)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, errkind.UnknownEntity)
}
