package model

import (
	"errors"
	"fmt"

	"wms-core/internal/shared/errkind"
)

var (
	ErrNotEligible   = fmt.Errorf("order not ALLOCATED or already batched: %w", errkind.InvalidState)
	ErrNoOrders      = fmt.Errorf("no order ids supplied: %w", errkind.Empty)
	ErrNoPickableBin = fmt.Errorf("no AVAILABLE bin to draw from: %w", errkind.NoStock)
)

func NewNotEligibleError(orderNumber string) error {
	return fmt.Errorf("order %s: %w", orderNumber, ErrNotEligible)
}

func IsNotEligibleError(err error) bool { return errors.Is(err, errkind.InvalidState) }
func IsEmptyError(err error) bool       { return errors.Is(err, errkind.Empty) }
func IsNoStockError(err error) bool     { return errors.Is(err, errkind.NoStock) }
