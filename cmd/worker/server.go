package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"wms-core/internal/config"
	"wms-core/internal/infrastructure/queue"
)

// asynqServer wraps asynq.Server with additional functionality.
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server that drains the
// cron-scheduled replenishment and ABC-classification tasks.
func setupAsynqServer(cfg config.QueueConfig, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Queues: map[string]int{
				queue.QueueDefault: cfg.Concurrency,
			},
			Concurrency: cfg.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] task failed - type: %s, id: %s, error: %v",
					task.Type(), task.ResultWriter().TaskID(), err)
			}),
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(1<<uint(n)) * time.Minute
			},
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown gracefully shuts down the server with timeout.
func (s *asynqServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("[Worker] Shutting down (waiting max 30s)...")
	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Worker] gracefully stopped")
	case <-ctx.Done():
		log.Println("[Worker] shutdown timeout exceeded")
	}
}
