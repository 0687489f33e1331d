// Package broadcast fans out a fire-and-forget webhook notification after a
// mutating operation commits. Delivery is best-effort: a failed POST is
// logged and swallowed, never propagated back into the caller's
// already-committed transaction.
package broadcast

import (
	"context"

	"github.com/go-resty/resty/v2"

	"wms-core/pkg/logger"
)

// Event is the opaque payload shape posted to the webhook target: a type
// discriminator plus whatever the domain wants to attach.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher is the narrow contract the domain services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// WebhookPublisher posts each event to a single configured URL.
type WebhookPublisher struct {
	client *resty.Client
	url    string
}

func NewWebhookPublisher(url string) *WebhookPublisher {
	return &WebhookPublisher{client: resty.New(), url: url}
}

// Publish posts the event in the background and never blocks the caller on
// network latency; errors are logged, not returned. The request runs
// detached from ctx so a caller's own cancellation (e.g. its HTTP request
// completing) doesn't abort a delivery that outlives it.
func (p *WebhookPublisher) Publish(ctx context.Context, event Event) {
	if p.url == "" {
		return
	}
	go func() {
		_, err := p.client.R().
			SetBody(event).
			SetHeader("Content-Type", "application/json").
			Post(p.url)
		if err != nil {
			logger.Error("broadcast publish failed", err)
		}
	}()
}

// NoopPublisher discards every event; used where no webhook is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) {}
