package workers

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
	"github.com/magasin-labs/checkout-system/shared/telemetry"
)

// DefaultBlockTimeout bounds each blocking read so workers notice
// context cancellation.
const DefaultBlockTimeout = 5 * time.Second

// Bus is the event bus surface the workers need.
type Bus interface {
	Publish(ctx context.Context, topic string, payload events.Payload) (string, error)
	EnsureGroup(ctx context.Context, topic, group string) error
	Subscribe(ctx context.Context, topic, group, consumer string, handler eventbus.Handler, blockTimeout time.Duration) error
}

// StockClient mutates inventory levels. Calls carry an idempotency key so
// a redelivered message never double-applies.
type StockClient interface {
	DiminuerStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error
	AugmenterStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error
}

// SalesClient records the final sale downstream.
type SalesClient interface {
	EnregistrerVente(ctx context.Context, magasinID, clientID models.ID, produitID string, quantite int) (string, error)
}

// idempotencyKey derives a stable key from the triggering stream message,
// so the same delivery always produces the same inventory mutation.
func idempotencyKey(msgID, produitID string) string {
	return fmt.Sprintf("choreo_%s_%s", msgID, produitID)
}

func recordEventConsumed(ctx context.Context, worker string, msg eventbus.Message) {
	telemetry.RecordCounter(ctx, "events_consumed_total", "Events consumed by choreography workers", 1,
		attribute.String("worker", worker),
		attribute.String("event_type", msg.Type),
	)
	if emitted := msg.EmittedSeconds(); emitted > 0 {
		latency := time.Since(time.Unix(0, int64(emitted*float64(time.Second)))).Seconds()
		telemetry.RecordHistogram(ctx, "event_latency_seconds", "Delay between event emission and consumption", latency,
			attribute.String("worker", worker),
			attribute.String("event_type", msg.Type),
		)
	}
}

func recordCheckoutOutcome(ctx context.Context, succeeded bool) {
	if succeeded {
		telemetry.RecordCounter(ctx, "saga_choreo_success_total", "Choreographed checkouts completed", 1)
		return
	}
	telemetry.RecordCounter(ctx, "saga_choreo_failed_total", "Choreographed checkouts failed", 1)
}

// nowSeconds is the event timestamp clock, replaceable in tests.
var nowSeconds = func() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
