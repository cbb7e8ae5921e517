package workers

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
)

// AuditWorker observes every event on the topic and appends one JSON line
// per delivery to its sink. It never interprets payloads, so malformed
// events are recorded too.
type AuditWorker struct {
	bus      Bus
	consumer string

	mu   sync.Mutex
	sink io.Writer
}

// NewAuditWorker creates the audit worker writing to sink.
func NewAuditWorker(bus Bus, sink io.Writer, consumer string) *AuditWorker {
	return &AuditWorker{bus: bus, sink: sink, consumer: consumer}
}

// Run blocks consuming the shared topic until the context ends.
func (w *AuditWorker) Run(ctx context.Context) error {
	if err := w.bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupAudit); err != nil {
		return errors.Wrap(err, "audit worker: ensure group")
	}
	return w.bus.Subscribe(ctx, events.TopicCheckout, events.GroupAudit, w.consumer, w.Handle, DefaultBlockTimeout)
}

type auditLine struct {
	MessageID string          `json:"message_id"`
	EventType string          `json:"event_type"`
	EmittedAt float64         `json:"emitted_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Handle appends one audit line. A sink write failure leaves the message
// pending so the audit trail never silently loses a delivery.
func (w *AuditWorker) Handle(ctx context.Context, msg eventbus.Message) error {
	recordEventConsumed(ctx, "audit", msg)

	line, err := json.Marshal(auditLine{
		MessageID: msg.ID,
		EventType: msg.Type,
		EmittedAt: msg.EmittedSeconds(),
		Payload:   msg.Payload,
	})
	if err != nil {
		return errors.Wrap(err, "audit worker: encode line")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.sink.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, "audit worker: write line")
	}
	return nil
}
