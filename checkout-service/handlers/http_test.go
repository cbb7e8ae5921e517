package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magasin-labs/checkout-system/checkout-service/infrastructure"
	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

type checkoutFixture struct {
	bus    *eventbus.RedisEventBus
	modele *infrastructure.RedisReadModel
	router chi.Router
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &checkoutFixture{
		bus:    eventbus.New(client, 1000),
		modele: infrastructure.NewRedisReadModel(client),
	}
	f.router = chi.NewRouter()
	NewCheckoutHandlers(f.bus, f.modele).RegisterRoutes(f.router)
	return f
}

func (f *checkoutFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *checkoutFixture) publish(t *testing.T, payload events.Payload) string {
	t.Helper()
	id, err := f.bus.Publish(context.Background(), events.TopicCheckout, payload)
	require.NoError(t, err)
	return id
}

func validCart() events.Panier {
	return events.Panier{Produits: []events.ProduitPanier{{ProduitID: "prod-1", Quantite: 2}}}
}

func TestInitierCheckout(t *testing.T) {
	t.Run("accepts and appends CheckoutInitiated", func(t *testing.T) {
		f := newCheckoutFixture(t)

		rec := f.do(t, http.MethodPost, "/api/checkout", map[string]any{
			"checkout_id": "chk-1",
			"client_id":   models.GenerateUUID().String(),
			"panier":      validCart(),
		})

		require.Equal(t, http.StatusAccepted, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "chk-1", body["checkout_id"])
		assert.Equal(t, "EN_COURS", body["statut"])
		assert.NotEmpty(t, body["message_id"])

		msgs, err := f.bus.ReadRange(context.Background(), events.TopicCheckout, 10)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, events.CheckoutInitiatedEvent, msgs[0].Type)
	})

	t.Run("generates a checkout id when absent", func(t *testing.T) {
		f := newCheckoutFixture(t)

		rec := f.do(t, http.MethodPost, "/api/checkout", map[string]any{
			"client_id": models.GenerateUUID().String(),
			"panier":    validCart(),
		})

		require.Equal(t, http.StatusAccepted, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["checkout_id"])
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		f := newCheckoutFixture(t)

		rec := f.do(t, http.MethodPost, "/api/checkout", map[string]any{
			"client_id": models.GenerateUUID().String(),
			"panier":    events.Panier{},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		msgs, err := f.bus.ReadRange(context.Background(), events.TopicCheckout, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		f := newCheckoutFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout",
			bytes.NewReader([]byte("{pas du json")))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStreamEvents(t *testing.T) {
	f := newCheckoutFixture(t)

	clientID := models.GenerateUUID().String()
	f.publish(t, events.CheckoutInitiated{CheckoutID: "chk-1", ClientID: clientID, Panier: validCart()})
	f.publish(t, events.StockReserved{CheckoutID: "chk-1", ClientID: clientID, Panier: validCart()})

	t.Run("lists events oldest first", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/streams/"+events.TopicCheckout+"/events", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Stream string             `json:"stream"`
			Count  int                `json:"count"`
			Events []eventbus.Message `json:"events"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, events.TopicCheckout, body.Stream)
		require.Equal(t, 2, body.Count)
		assert.Equal(t, events.CheckoutInitiatedEvent, body.Events[0].Type)
		assert.Equal(t, events.StockReservedEvent, body.Events[1].Type)
	})

	t.Run("honours the limit parameter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/streams/"+events.TopicCheckout+"/events?limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/streams/"+events.TopicCheckout+"/events?limit=-3", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReplayCheckout(t *testing.T) {
	f := newCheckoutFixture(t)
	clientID := models.GenerateUUID().String()

	// Two interleaved checkouts on the shared stream.
	f.publish(t, events.CheckoutInitiated{CheckoutID: "chk-a", ClientID: clientID, Panier: validCart()})
	f.publish(t, events.CheckoutInitiated{CheckoutID: "chk-b", ClientID: clientID, Panier: validCart()})
	f.publish(t, events.StockReserved{CheckoutID: "chk-a", ClientID: clientID, Panier: validCart()})
	f.publish(t, events.StockReservationFailed{CheckoutID: "chk-b", Reason: "inventory_error", Panier: validCart()})
	f.publish(t, events.CheckoutFailed{CheckoutID: "chk-b", ClientID: clientID, Reason: "inventory_error"})

	t.Run("folds only the requested checkout", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/replay/checkout/chk-a", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			CheckoutID string             `json:"checkout_id"`
			Statut     string             `json:"statut"`
			Evenements []eventbus.Message `json:"evenements"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "chk-a", body.CheckoutID)
		assert.Equal(t, "STOCK_RESERVE", body.Statut)
		assert.Len(t, body.Evenements, 2)
	})

	t.Run("terminal failure state", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/replay/checkout/chk-b", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Statut string `json:"statut"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ECHOUE", body.Statut)
	})

	t.Run("unknown checkout", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/event-store/replay/checkout/chk-zzz", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrdersByClientEndpoint(t *testing.T) {
	f := newCheckoutFixture(t)

	require.NoError(t, f.modele.EnregistrerCommande(context.Background(),
		"client-1", "vente-1", "chk-1", float64(time.Now().Unix())))

	rec := f.do(t, http.MethodGet, "/api/event-store/cqrs/orders-by-client/client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc infrastructure.OrdersByClient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, int64(1), doc.TotalOrders)
	assert.Equal(t, "vente-1", doc.LastOrderID)
}

func TestCheckoutHealth(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "checkout-service", body["service"])
}
