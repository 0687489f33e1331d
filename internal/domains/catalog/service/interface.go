package service

import (
	"context"

	"wms-core/internal/domains/catalog/model"
)

// ServiceInterface is the business-logic surface over the Item catalog.
type ServiceInterface interface {
	CreateItem(ctx context.Context, sku, name string, attrs model.Attributes, isSerialized bool) (*model.Item, error)
	GetItem(ctx context.Context, sku string) (*model.Item, error)
	DeleteItem(ctx context.Context, sku string) error
	ClassifyABC(ctx context.Context, since int) (map[model.ABCClass]int, error)
}
