package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,63}$`)

// CreateItemRequest is the input DTO for catalog.create, validated the same
// way the CLI and any future HTTP surface both need: before the catalog
// service ever sees a SKU.
type CreateItemRequest struct {
	SKU        string
	Name       string
	Attributes Attributes
	Serialized bool
}

func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SKU,
			validation.Required.Error("sku is required"),
			validation.Match(skuPattern).Error("sku must be 2-64 alphanumeric characters, dashes, or underscores"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}
