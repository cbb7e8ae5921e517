package workers

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// CompensationWorker consumes failure events and gives reserved stock
// back. Releases are best effort per line; a line that cannot be released
// is logged and skipped so one stuck product never blocks the terminal
// CheckoutFailed event.
type CompensationWorker struct {
	bus       Bus
	stock     StockClient
	magasinID models.ID
	consumer  string
}

// NewCompensationWorker creates the compensation worker.
func NewCompensationWorker(bus Bus, stock StockClient, magasinID models.ID, consumer string) *CompensationWorker {
	return &CompensationWorker{bus: bus, stock: stock, magasinID: magasinID, consumer: consumer}
}

// Run blocks consuming the shared topic until the context ends.
func (w *CompensationWorker) Run(ctx context.Context) error {
	if err := w.bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupCompensation); err != nil {
		return errors.Wrap(err, "compensation worker: ensure group")
	}
	return w.bus.Subscribe(ctx, events.TopicCheckout, events.GroupCompensation, w.consumer, w.Handle, DefaultBlockTimeout)
}

// Handle processes one delivery.
func (w *CompensationWorker) Handle(ctx context.Context, msg eventbus.Message) error {
	if msg.Type != events.StockReservationFailedEvent && msg.Type != events.OrderCreationFailedEvent {
		return nil
	}
	recordEventConsumed(ctx, "compensation", msg)

	payload, err := events.Decode(msg.Type, msg.Payload)
	if err != nil {
		log.Printf("compensation worker: dropping malformed %s %s: %v", msg.Type, msg.ID, err)
		return nil
	}

	var checkoutID, clientID, reason string
	var panier events.Panier
	switch evt := payload.(type) {
	case *events.StockReservationFailed:
		checkoutID, clientID, reason, panier = evt.CheckoutID, evt.ClientID, evt.Reason, evt.Panier
	case *events.OrderCreationFailed:
		checkoutID, clientID, reason, panier = evt.CheckoutID, evt.ClientID, evt.Reason, evt.Panier
	}

	for _, ligne := range panier.Produits {
		key := idempotencyKey(msg.ID, ligne.ProduitID)
		if err := w.stock.AugmenterStock(ctx, ligne.ProduitID, ligne.Quantite, w.magasinID, key); err != nil {
			log.Printf("compensation worker: checkout %s: release failed for %s: %v",
				checkoutID, ligne.ProduitID, err)
		}
	}

	if _, err := w.bus.Publish(ctx, events.TopicCheckout, events.StockReleased{
		CheckoutID: checkoutID,
		EmittedAt:  nowSeconds(),
	}); err != nil {
		return err
	}

	_, err = w.bus.Publish(ctx, events.TopicCheckout, events.CheckoutFailed{
		CheckoutID: checkoutID,
		ClientID:   clientID,
		Reason:     reason,
		EmittedAt:  nowSeconds(),
	})
	if err == nil {
		recordCheckoutOutcome(ctx, false)
	}
	return err
}
