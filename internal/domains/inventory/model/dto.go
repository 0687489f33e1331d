package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errInvalidStatus = errors.New("status must be AVAILABLE, QUARANTINE, or DAMAGED")

// ReceiveRequest is the input DTO for inventory.receive, validated before
// the CLI or any future HTTP handler calls into ServiceInterface.Receive.
type ReceiveRequest struct {
	SKU          string
	LocationCode string
	Qty          int
	Lot          *string
	Expiry       *time.Time
	Status       Status
	Serials      []string
}

func (r ReceiveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SKU, validation.Required.Error("sku is required")),
		validation.Field(&r.LocationCode, validation.Required.Error("location is required")),
		validation.Field(&r.Qty, validation.Required.Error("qty is required"), validation.Min(1)),
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.By(func(value interface{}) error {
				s, _ := value.(Status)
				if !s.IsValid() {
					return errInvalidStatus
				}
				return nil
			}),
		),
	)
}
