// Package queue schedules and dispatches the background jobs this core
// runs: replenishment-task generation and ABC velocity classification.
package queue

const (
	// TypeGenerateReplenishment triggers
	// replenishment.ServiceInterface.GenerateReplenishmentTasks.
	TypeGenerateReplenishment = "replenishment:generate"

	// TypeClassifyABC triggers catalog.ServiceInterface.ClassifyABC over
	// the trailing window carried in its payload.
	TypeClassifyABC = "catalog:classify_abc"

	// QueueDefault is the only queue this core schedules onto; there's no
	// priority tiering need across two cron jobs.
	QueueDefault = "default"
)

// ClassifyABCPayload carries the trailing-window size (in days) the
// classification job should rank outbound velocity over.
type ClassifyABCPayload struct {
	SinceDays int `json:"since_days"`
}
