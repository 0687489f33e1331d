package main

import (
	"context"

	"github.com/hibiken/asynq"

	"wms-core/internal/infrastructure/queue"
	"wms-core/internal/infrastructure/queue/handlers"
	"wms-core/pkg/container"
)

// HandlerRegistry holds every asynq task handler this worker runs.
type HandlerRegistry struct {
	generateReplenishment func(ctx context.Context, t *asynq.Task) error
	classifyABC           func(ctx context.Context, t *asynq.Task) error
}

// initializeHandlers builds the handler closures against the container's
// already-wired domain services.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		generateReplenishment: handlers.GenerateReplenishmentHandler(c.ReplenishmentService),
		classifyABC:           handlers.ClassifyABCHandler(c.CatalogService),
	}
}

// RegisterHandlers wires every task type this worker knows how to run onto
// the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeGenerateReplenishment, h.generateReplenishment)
	mux.HandleFunc(queue.TypeClassifyABC, h.classifyABC)
}
