package repository

import (
	"context"

	"github.com/google/uuid"

	"wms-core/internal/domains/catalog/model"
)

// RepositoryInterface is the persistence contract for the Item catalog.
type RepositoryInterface interface {
	Create(ctx context.Context, item *model.Item) error
	GetBySKU(ctx context.Context, sku string) (*model.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	IsReferenced(ctx context.Context, sku string) (bool, error)
	Delete(ctx context.Context, sku string) error
	BulkSetABCClass(ctx context.Context, assignments map[string]model.ABCClass) error
	ListSKUs(ctx context.Context) ([]string, error)
}
