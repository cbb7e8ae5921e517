package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magasin-labs/checkout-system/checkout-service/infrastructure"
	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

type publishedEvent struct {
	Topic   string
	Payload events.Payload
}

// fakeBus records publishes and can be told to fail them by event type.
type fakeBus struct {
	mu          sync.Mutex
	published   []publishedEvent
	failPublish map[string]error
}

func (b *fakeBus) Publish(_ context.Context, topic string, payload events.Payload) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.failPublish[payload.EventType()]; ok {
		return "", err
	}
	b.published = append(b.published, publishedEvent{Topic: topic, Payload: payload})
	return fmt.Sprintf("0-%d", len(b.published)), nil
}

func (b *fakeBus) EnsureGroup(context.Context, string, string) error { return nil }

func (b *fakeBus) Subscribe(context.Context, string, string, string, eventbus.Handler, time.Duration) error {
	return nil
}

func (b *fakeBus) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.published))
	for _, evt := range b.published {
		types = append(types, evt.Payload.EventType())
	}
	return types
}

type stockCall struct {
	ProduitID string
	Quantite  int
	Key       string
}

type fakeStock struct {
	mu        sync.Mutex
	decrement []stockCall
	increment []stockCall
	failOn    string
}

func (s *fakeStock) DiminuerStock(_ context.Context, produitID string, quantite int, _ models.ID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if produitID == s.failOn {
		return fmt.Errorf("stock indisponible")
	}
	s.decrement = append(s.decrement, stockCall{ProduitID: produitID, Quantite: quantite, Key: key})
	return nil
}

func (s *fakeStock) AugmenterStock(_ context.Context, produitID string, quantite int, _ models.ID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if produitID == s.failOn {
		return fmt.Errorf("stock indisponible")
	}
	s.increment = append(s.increment, stockCall{ProduitID: produitID, Quantite: quantite, Key: key})
	return nil
}

type fakeSales struct {
	mu      sync.Mutex
	venteID string
	err     error
	calls   int
}

func (s *fakeSales) EnregistrerVente(context.Context, models.ID, models.ID, string, int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.venteID, s.err
}

func newMessage(t *testing.T, id string, payload events.Payload) eventbus.Message {
	t.Helper()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	return eventbus.Message{ID: id, Type: payload.EventType(), Payload: encoded}
}

func testPanier() events.Panier {
	return events.Panier{Produits: []events.ProduitPanier{
		{ProduitID: "prod-1", Quantite: 2},
		{ProduitID: "prod-2", Quantite: 1},
	}}
}

func TestReservationWorkerHandle(t *testing.T) {
	magasinID := models.GenerateUUID()
	initiated := events.CheckoutInitiated{
		CheckoutID: "chk-1",
		ClientID:   models.GenerateUUID().String(),
		Panier:     testPanier(),
		EmittedAt:  nowSeconds(),
	}

	t.Run("reserves every line and publishes StockReserved", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{}
		worker := NewReservationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "1-0", initiated))
		require.NoError(t, err)

		require.Len(t, stock.decrement, 2)
		assert.Equal(t, "choreo_1-0_prod-1", stock.decrement[0].Key)
		assert.Equal(t, "choreo_1-0_prod-2", stock.decrement[1].Key)

		require.Equal(t, []string{events.StockReservedEvent}, bus.eventTypes())
		reserved := bus.published[0].Payload.(events.StockReserved)
		assert.Equal(t, "chk-1", reserved.CheckoutID)
		assert.Equal(t, initiated.Panier, reserved.Panier)
	})

	t.Run("decrement failure publishes StockReservationFailed and acks", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{failOn: "prod-2"}
		worker := NewReservationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "1-0", initiated))
		require.NoError(t, err)

		require.Equal(t, []string{events.StockReservationFailedEvent}, bus.eventTypes())
		failed := bus.published[0].Payload.(events.StockReservationFailed)
		assert.Equal(t, "inventory_error", failed.Reason)
		assert.Equal(t, initiated.Panier, failed.Panier)
	})

	t.Run("publish failure leaves the message pending", func(t *testing.T) {
		bus := &fakeBus{failPublish: map[string]error{
			events.StockReservedEvent: fmt.Errorf("stream unavailable"),
		}}
		worker := NewReservationWorker(bus, &fakeStock{}, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "1-0", initiated))
		assert.Error(t, err)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{}
		worker := NewReservationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "1-0", events.CheckoutFailed{
			CheckoutID: "chk-1", Reason: "order_error",
		}))
		require.NoError(t, err)
		assert.Empty(t, stock.decrement)
		assert.Empty(t, bus.published)
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{}
		worker := NewReservationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), eventbus.Message{
			ID:      "1-0",
			Type:    events.CheckoutInitiatedEvent,
			Payload: []byte(`{"checkout_id": ""}`),
		})
		require.NoError(t, err)
		assert.Empty(t, stock.decrement)
		assert.Empty(t, bus.published)
	})
}

func TestOrderWorkerHandle(t *testing.T) {
	magasinID := models.GenerateUUID()
	reserved := events.StockReserved{
		CheckoutID: "chk-2",
		ClientID:   models.GenerateUUID().String(),
		Panier:     testPanier(),
		EmittedAt:  nowSeconds(),
	}

	t.Run("sale success publishes OrderCreated then CheckoutSucceeded", func(t *testing.T) {
		bus := &fakeBus{}
		ventes := &fakeSales{venteID: "vente-9"}
		worker := NewOrderWorker(bus, ventes, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "2-0", reserved))
		require.NoError(t, err)
		assert.Equal(t, 1, ventes.calls)

		require.Equal(t, []string{events.OrderCreatedEvent, events.CheckoutSucceededEvent}, bus.eventTypes())
		created := bus.published[0].Payload.(events.OrderCreated)
		assert.Equal(t, "vente-9", created.CommandeID)
		assert.Equal(t, "chk-2", created.CheckoutID)
	})

	t.Run("sale failure publishes OrderCreationFailed with the cart", func(t *testing.T) {
		bus := &fakeBus{}
		ventes := &fakeSales{err: fmt.Errorf("service indisponible")}
		worker := NewOrderWorker(bus, ventes, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "2-0", reserved))
		require.NoError(t, err)

		require.Equal(t, []string{events.OrderCreationFailedEvent}, bus.eventTypes())
		failed := bus.published[0].Payload.(events.OrderCreationFailed)
		assert.Equal(t, "order_error", failed.Reason)
		assert.Equal(t, reserved.Panier, failed.Panier)
	})

	t.Run("terminal publish failure leaves the message pending", func(t *testing.T) {
		bus := &fakeBus{failPublish: map[string]error{
			events.CheckoutSucceededEvent: fmt.Errorf("stream unavailable"),
		}}
		worker := NewOrderWorker(bus, &fakeSales{venteID: "vente-9"}, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "2-0", reserved))
		assert.Error(t, err)
	})
}

func TestCompensationWorkerHandle(t *testing.T) {
	magasinID := models.GenerateUUID()

	t.Run("releases the cart and publishes terminal failure", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{}
		worker := NewCompensationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "3-0", events.OrderCreationFailed{
			CheckoutID: "chk-3",
			ClientID:   models.GenerateUUID().String(),
			Reason:     "order_error",
			Panier:     testPanier(),
		}))
		require.NoError(t, err)

		require.Len(t, stock.increment, 2)
		assert.Equal(t, "choreo_3-0_prod-1", stock.increment[0].Key)

		require.Equal(t, []string{events.StockReleasedEvent, events.CheckoutFailedEvent}, bus.eventTypes())
		failed := bus.published[1].Payload.(events.CheckoutFailed)
		assert.Equal(t, "order_error", failed.Reason)
	})

	t.Run("a stuck release never blocks the terminal event", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{failOn: "prod-1"}
		worker := NewCompensationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "3-0", events.StockReservationFailed{
			CheckoutID: "chk-3",
			Reason:     "inventory_error",
			Panier:     testPanier(),
		}))
		require.NoError(t, err)

		require.Len(t, stock.increment, 1)
		assert.Equal(t, "prod-2", stock.increment[0].ProduitID)
		assert.Equal(t, []string{events.StockReleasedEvent, events.CheckoutFailedEvent}, bus.eventTypes())
	})

	t.Run("ignores non-failure events", func(t *testing.T) {
		bus := &fakeBus{}
		stock := &fakeStock{}
		worker := NewCompensationWorker(bus, stock, magasinID, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "3-0", events.StockReserved{
			CheckoutID: "chk-3", Panier: testPanier(),
		}))
		require.NoError(t, err)
		assert.Empty(t, stock.increment)
		assert.Empty(t, bus.published)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disque plein") }

func TestAuditWorkerHandle(t *testing.T) {
	t.Run("records every delivery as one JSON line", func(t *testing.T) {
		var sink safeBuffer
		worker := NewAuditWorker(&fakeBus{}, &sink, "c1")

		require.NoError(t, worker.Handle(context.Background(), newMessage(t, "4-0", events.CheckoutInitiated{
			CheckoutID: "chk-4",
			ClientID:   models.GenerateUUID().String(),
			Panier:     testPanier(),
		})))
		require.NoError(t, worker.Handle(context.Background(), eventbus.Message{
			ID: "4-1", Type: "Mystere", Payload: []byte(`{"quoi": "?"}`),
		}))

		lines := sink.Lines()
		require.Len(t, lines, 2)

		var first auditLine
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, "4-0", first.MessageID)
		assert.Equal(t, events.CheckoutInitiatedEvent, first.EventType)

		var second auditLine
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
		assert.Equal(t, "Mystere", second.EventType)
	})

	t.Run("sink failure leaves the message pending", func(t *testing.T) {
		worker := NewAuditWorker(&fakeBus{}, failingWriter{}, "c1")
		err := worker.Handle(context.Background(), newMessage(t, "4-0", events.StockReleased{CheckoutID: "chk-4"}))
		assert.Error(t, err)
	})
}

type projectionCall struct {
	Kind       string
	ClientID   string
	CommandeID string
	CheckoutID string
}

type fakeReadModel struct {
	mu    sync.Mutex
	calls []projectionCall
	err   error
}

func (m *fakeReadModel) EnregistrerCommande(_ context.Context, clientID, commandeID, checkoutID string, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, projectionCall{Kind: "commande", ClientID: clientID, CommandeID: commandeID, CheckoutID: checkoutID})
	return m.err
}

func (m *fakeReadModel) EnregistrerTerminaison(_ context.Context, clientID, checkoutID string, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, projectionCall{Kind: "terminaison", ClientID: clientID, CheckoutID: checkoutID})
	return m.err
}

func TestProjectionWorkerHandle(t *testing.T) {
	clientID := models.GenerateUUID().String()

	t.Run("projects order creation and termination", func(t *testing.T) {
		modele := &fakeReadModel{}
		worker := NewProjectionWorker(&fakeBus{}, modele, "c1")

		require.NoError(t, worker.Handle(context.Background(), newMessage(t, "5-0", events.OrderCreated{
			CheckoutID: "chk-5", CommandeID: "vente-5", ClientID: clientID,
		})))
		require.NoError(t, worker.Handle(context.Background(), newMessage(t, "5-1", events.CheckoutSucceeded{
			CheckoutID: "chk-5", CommandeID: "vente-5", ClientID: clientID,
		})))

		require.Len(t, modele.calls, 2)
		assert.Equal(t, projectionCall{Kind: "commande", ClientID: clientID, CommandeID: "vente-5", CheckoutID: "chk-5"}, modele.calls[0])
		assert.Equal(t, "terminaison", modele.calls[1].Kind)
	})

	t.Run("ignores intermediate events", func(t *testing.T) {
		modele := &fakeReadModel{}
		worker := NewProjectionWorker(&fakeBus{}, modele, "c1")

		require.NoError(t, worker.Handle(context.Background(), newMessage(t, "5-0", events.StockReserved{
			CheckoutID: "chk-5", Panier: testPanier(),
		})))
		assert.Empty(t, modele.calls)
	})

	t.Run("projection failure leaves the message pending", func(t *testing.T) {
		modele := &fakeReadModel{err: fmt.Errorf("redis down")}
		worker := NewProjectionWorker(&fakeBus{}, modele, "c1")

		err := worker.Handle(context.Background(), newMessage(t, "5-0", events.CheckoutFailed{
			CheckoutID: "chk-5", ClientID: clientID, Reason: "order_error",
		}))
		assert.Error(t, err)
	})
}

// safeBuffer is a mutex-guarded line sink.
type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *safeBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var lines []string
	start := 0
	for i, c := range b.buf {
		if c == '\n' {
			lines = append(lines, string(b.buf[start:i]))
			start = i + 1
		}
	}
	return lines
}

func TestChoreographyEndToEnd(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	bus := eventbus.New(client, 1000)
	magasinID := models.GenerateUUID()
	clientID := models.GenerateUUID()

	stock := &fakeStock{}
	ventes := &fakeSales{venteID: "vente-e2e"}
	modele := infrastructure.NewRedisReadModel(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Groups are created at the stream tail, so they must exist before
	// the initiating event is appended.
	for _, group := range []string{
		events.GroupReservation, events.GroupOrder, events.GroupCompensation, events.GroupCQRS,
	} {
		require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, group))
	}

	run := func(f func(context.Context) error) {
		go func() {
			if err := f(ctx); err != nil && ctx.Err() == nil {
				t.Errorf("worker stopped: %v", err)
			}
		}()
	}
	run(NewReservationWorker(bus, stock, magasinID, "c-res").Run)
	run(NewOrderWorker(bus, ventes, magasinID, "c-ord").Run)
	run(NewCompensationWorker(bus, stock, magasinID, "c-comp").Run)
	run(NewProjectionWorker(bus, modele, "c-cqrs").Run)

	_, err := bus.Publish(ctx, events.TopicCheckout, events.CheckoutInitiated{
		CheckoutID: "chk-e2e",
		ClientID:   clientID.String(),
		Panier:     testPanier(),
		EmittedAt:  nowSeconds(),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		doc, err := modele.OrdersByClient(context.Background(), clientID.String())
		return err == nil && doc.TotalOrders == 1 && doc.LastCheckoutID == "chk-e2e"
	}, 5*time.Second, 20*time.Millisecond, "read model never saw the completed checkout")

	stock.mu.Lock()
	decrements := len(stock.decrement)
	increments := len(stock.increment)
	stock.mu.Unlock()
	assert.Equal(t, 2, decrements)
	assert.Zero(t, increments)

	msgs, err := bus.ReadRange(context.Background(), events.TopicCheckout, 50)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, msg := range msgs {
		seen[msg.Type] = true
	}
	assert.True(t, seen[events.StockReservedEvent])
	assert.True(t, seen[events.OrderCreatedEvent])
	assert.True(t, seen[events.CheckoutSucceededEvent])
	assert.False(t, seen[events.StockReservationFailedEvent])
}
