package workers

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// OrderWorker consumes StockReserved and records the sale. Success emits
// OrderCreated then CheckoutSucceeded; a sale failure emits
// OrderCreationFailed carrying the cart for compensation.
type OrderWorker struct {
	bus       Bus
	ventes    SalesClient
	magasinID models.ID
	consumer  string
}

// NewOrderWorker creates the order worker.
func NewOrderWorker(bus Bus, ventes SalesClient, magasinID models.ID, consumer string) *OrderWorker {
	return &OrderWorker{bus: bus, ventes: ventes, magasinID: magasinID, consumer: consumer}
}

// Run blocks consuming the shared topic until the context ends.
func (w *OrderWorker) Run(ctx context.Context) error {
	if err := w.bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupOrder); err != nil {
		return errors.Wrap(err, "order worker: ensure group")
	}
	return w.bus.Subscribe(ctx, events.TopicCheckout, events.GroupOrder, w.consumer, w.Handle, DefaultBlockTimeout)
}

// Handle processes one delivery.
func (w *OrderWorker) Handle(ctx context.Context, msg eventbus.Message) error {
	if msg.Type != events.StockReservedEvent {
		return nil
	}
	recordEventConsumed(ctx, "order", msg)

	payload, err := events.Decode(msg.Type, msg.Payload)
	if err != nil {
		log.Printf("order worker: dropping malformed %s %s: %v", msg.Type, msg.ID, err)
		return nil
	}
	reserved := payload.(*events.StockReserved)

	clientID := models.ID(reserved.ClientID)
	premiereLigne := reserved.Panier.Produits[0]
	venteID, err := w.ventes.EnregistrerVente(ctx, w.magasinID, clientID, premiereLigne.ProduitID, premiereLigne.Quantite)
	if err != nil {
		log.Printf("order worker: checkout %s: sale failed: %v", reserved.CheckoutID, err)
		_, pubErr := w.bus.Publish(ctx, events.TopicCheckout, events.OrderCreationFailed{
			CheckoutID: reserved.CheckoutID,
			ClientID:   reserved.ClientID,
			Reason:     "order_error",
			Panier:     reserved.Panier,
			EmittedAt:  nowSeconds(),
		})
		return pubErr
	}

	if _, err := w.bus.Publish(ctx, events.TopicCheckout, events.OrderCreated{
		CheckoutID: reserved.CheckoutID,
		CommandeID: venteID,
		ClientID:   reserved.ClientID,
		EmittedAt:  nowSeconds(),
	}); err != nil {
		return err
	}

	_, err = w.bus.Publish(ctx, events.TopicCheckout, events.CheckoutSucceeded{
		CheckoutID: reserved.CheckoutID,
		CommandeID: venteID,
		ClientID:   reserved.ClientID,
		EmittedAt:  nowSeconds(),
	})
	if err == nil {
		recordCheckoutOutcome(ctx, true)
	}
	return err
}
