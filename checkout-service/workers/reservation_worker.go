package workers

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// ReservationWorker consumes CheckoutInitiated and decrements stock line
// by line. The outcome event always carries the full cart so downstream
// workers act without replaying history.
type ReservationWorker struct {
	bus       Bus
	stock     StockClient
	magasinID models.ID
	consumer  string
}

// NewReservationWorker creates the reservation worker.
func NewReservationWorker(bus Bus, stock StockClient, magasinID models.ID, consumer string) *ReservationWorker {
	return &ReservationWorker{bus: bus, stock: stock, magasinID: magasinID, consumer: consumer}
}

// Run blocks consuming the shared topic until the context ends.
func (w *ReservationWorker) Run(ctx context.Context) error {
	if err := w.bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupReservation); err != nil {
		return errors.Wrap(err, "reservation worker: ensure group")
	}
	return w.bus.Subscribe(ctx, events.TopicCheckout, events.GroupReservation, w.consumer, w.Handle, DefaultBlockTimeout)
}

// Handle processes one delivery. Events other than CheckoutInitiated are
// acked untouched; business failures publish a failure event and ack;
// only publish failures leave the message pending for redelivery.
func (w *ReservationWorker) Handle(ctx context.Context, msg eventbus.Message) error {
	if msg.Type != events.CheckoutInitiatedEvent {
		return nil
	}
	recordEventConsumed(ctx, "reservation", msg)

	payload, err := events.Decode(msg.Type, msg.Payload)
	if err != nil {
		log.Printf("reservation worker: dropping malformed %s %s: %v", msg.Type, msg.ID, err)
		return nil
	}
	initiated := payload.(*events.CheckoutInitiated)

	for _, ligne := range initiated.Panier.Produits {
		key := idempotencyKey(msg.ID, ligne.ProduitID)
		if err := w.stock.DiminuerStock(ctx, ligne.ProduitID, ligne.Quantite, w.magasinID, key); err != nil {
			log.Printf("reservation worker: checkout %s: stock decrement failed for %s: %v",
				initiated.CheckoutID, ligne.ProduitID, err)
			_, pubErr := w.bus.Publish(ctx, events.TopicCheckout, events.StockReservationFailed{
				CheckoutID: initiated.CheckoutID,
				ClientID:   initiated.ClientID,
				Reason:     "inventory_error",
				Panier:     initiated.Panier,
				EmittedAt:  nowSeconds(),
			})
			return pubErr
		}
	}

	_, err = w.bus.Publish(ctx, events.TopicCheckout, events.StockReserved{
		CheckoutID: initiated.CheckoutID,
		ClientID:   initiated.ClientID,
		Panier:     initiated.Panier,
		EmittedAt:  nowSeconds(),
	})
	return err
}
