// internal/events/events.go
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TypeCommodityRegistered    = "commodity.registered"
	TypeCommodityStatusChanged = "commodity.status_changed"
	TypeLabelArchived          = "commodity.label_archived"
)

type Event struct {
	Type        string                 `json:"type"`
	BatchNumber string                 `json:"batch_number"`
	Status      string                 `json:"status,omitempty"`
	Actor       string                 `json:"actor,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events after the change they describe has committed.
// Publish must not block the caller and never reports failure; delivery
// problems are logged by the implementation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

// Fanout sends each event to every publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) {
	for _, p := range f {
		p.Publish(ctx, event)
	}
}
