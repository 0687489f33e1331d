package service

import (
	"context"

	"github.com/google/uuid"

	"wms-core/internal/domains/order/model"
)

// AllocationService reserves stock for PENDING orders by FEFO policy.
type AllocationService interface {
	Allocate(ctx context.Context, orderNumber string) (*model.AllocationResult, error)
}

// PipelineService drives an order through
// ALLOCATED → PICKED → PACKED → SHIPPED, including the short_pick
// compensation path.
type PipelineService interface {
	PickOrderItem(ctx context.Context, orderNumber, sku, locationCode string, qty int, lot *string, serial *string) (*model.PickResult, error)
	Pack(ctx context.Context, orderNumber string) (*model.Order, error)
	Ship(ctx context.Context, orderNumber string) (*model.Order, error)
	ShortPick(ctx context.Context, orderNumber, sku, locationCode string, qtyMissing int) (*model.Order, error)

	// PrintLabel persists a caller-rendered label's bytes against a packed or
	// shipped order and returns the sink reference to retrieve them later. The
	// order domain never renders label content itself.
	PrintLabel(ctx context.Context, orderNumber string, data []byte) (string, error)
}

// ServiceInterface is the combined order domain surface: allocation plus
// the pipeline transitions.
type ServiceInterface interface {
	AllocationService
	PipelineService
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	ListLines(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error)
}
