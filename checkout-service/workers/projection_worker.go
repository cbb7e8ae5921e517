package workers

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
)

// ReadModel is the per-client query projection the CQRS worker maintains.
type ReadModel interface {
	EnregistrerCommande(ctx context.Context, clientID, commandeID, checkoutID string, ts float64) error
	EnregistrerTerminaison(ctx context.Context, clientID, checkoutID string, ts float64) error
}

// ProjectionWorker folds terminal checkout events into the orders-by-client
// read model.
type ProjectionWorker struct {
	bus      Bus
	modele   ReadModel
	consumer string
}

// NewProjectionWorker creates the CQRS projection worker.
func NewProjectionWorker(bus Bus, modele ReadModel, consumer string) *ProjectionWorker {
	return &ProjectionWorker{bus: bus, modele: modele, consumer: consumer}
}

// Run blocks consuming the shared topic until the context ends.
func (w *ProjectionWorker) Run(ctx context.Context) error {
	if err := w.bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupCQRS); err != nil {
		return errors.Wrap(err, "projection worker: ensure group")
	}
	return w.bus.Subscribe(ctx, events.TopicCheckout, events.GroupCQRS, w.consumer, w.Handle, DefaultBlockTimeout)
}

// Handle processes one delivery. Projection write failures leave the
// message pending; the upsert is keyed so redelivery converges.
func (w *ProjectionWorker) Handle(ctx context.Context, msg eventbus.Message) error {
	switch msg.Type {
	case events.OrderCreatedEvent, events.CheckoutSucceededEvent, events.CheckoutFailedEvent:
	default:
		return nil
	}
	recordEventConsumed(ctx, "cqrs", msg)

	payload, err := events.Decode(msg.Type, msg.Payload)
	if err != nil {
		log.Printf("projection worker: dropping malformed %s %s: %v", msg.Type, msg.ID, err)
		return nil
	}

	switch evt := payload.(type) {
	case *events.OrderCreated:
		return w.modele.EnregistrerCommande(ctx, evt.ClientID, evt.CommandeID, evt.CheckoutID, evt.EmittedAt)
	case *events.CheckoutSucceeded:
		return w.modele.EnregistrerTerminaison(ctx, evt.ClientID, evt.CheckoutID, evt.EmittedAt)
	case *events.CheckoutFailed:
		return w.modele.EnregistrerTerminaison(ctx, evt.ClientID, evt.CheckoutID, evt.EmittedAt)
	}
	return nil
}
