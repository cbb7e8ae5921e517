package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/magasin-labs/checkout-system/checkout-service/infrastructure"
	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/events"
	"github.com/magasin-labs/checkout-system/shared/models"
)

const defaultReplayCount = 200

// EventStore is the bus surface the HTTP layer needs: appending the
// initiating event and reading streams back for replay.
type EventStore interface {
	Publish(ctx context.Context, topic string, payload events.Payload) (string, error)
	ReadRange(ctx context.Context, topic string, count int64) ([]eventbus.Message, error)
}

// ReadModelReader serves the CQRS projection.
type ReadModelReader interface {
	OrdersByClient(ctx context.Context, clientID string) (*infrastructure.OrdersByClient, error)
}

// CheckoutHandlers contains checkout HTTP handlers
type CheckoutHandlers struct {
	bus       EventStore
	readModel ReadModelReader
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(bus EventStore, readModel ReadModelReader) *CheckoutHandlers {
	return &CheckoutHandlers{bus: bus, readModel: readModel}
}

type checkoutRequest struct {
	CheckoutID string        `json:"checkout_id"`
	ClientID   string        `json:"client_id"`
	Panier     events.Panier `json:"panier"`
}

// InitierCheckout accepts a cart, appends CheckoutInitiated and returns
// immediately. The workers carry the checkout to a terminal event; the
// 202 only acknowledges the append.
func (h *CheckoutHandlers) InitierCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CheckoutID == "" {
		req.CheckoutID = models.GenerateUUID().String()
	}

	initiated := events.CheckoutInitiated{
		CheckoutID: req.CheckoutID,
		ClientID:   req.ClientID,
		Panier:     req.Panier,
		EmittedAt:  float64(time.Now().UnixNano()) / float64(time.Second),
	}
	if err := initiated.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	msgID, err := h.bus.Publish(r.Context(), events.TopicCheckout, initiated)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"checkout_id": req.CheckoutID,
		"message_id":  msgID,
		"statut":      "EN_COURS",
	})
}

// StreamEvents lists the raw events of one stream, oldest first.
func (h *CheckoutHandlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	stream := chi.URLParam(r, "stream")

	count := int64(defaultReplayCount)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		count = parsed
	}

	messages, err := h.bus.ReadRange(r.Context(), stream, count)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stream": stream,
		"count":  len(messages),
		"events": messages,
	})
}

// replayState is the coarse checkout state rebuilt from the stream.
var replayState = map[string]string{
	events.CheckoutInitiatedEvent:      "EN_COURS",
	events.StockReservedEvent:          "STOCK_RESERVE",
	events.StockReservationFailedEvent: "ECHEC_RESERVATION",
	events.OrderCreatedEvent:           "COMMANDE_CREEE",
	events.OrderCreationFailedEvent:    "ECHEC_COMMANDE",
	events.StockReleasedEvent:          "STOCK_LIBERE",
	events.CheckoutSucceededEvent:      "TERMINE",
	events.CheckoutFailedEvent:         "ECHOUE",
}

// ReplayCheckout folds the shared stream into the history and current
// state of one checkout.
func (h *CheckoutHandlers) ReplayCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID := chi.URLParam(r, "checkout_id")

	messages, err := h.bus.ReadRange(r.Context(), events.TopicCheckout, defaultReplayCount)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var history []eventbus.Message
	statut := "INCONNU"
	for _, msg := range messages {
		var envelope struct {
			CheckoutID string `json:"checkout_id"`
		}
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil || envelope.CheckoutID != checkoutID {
			continue
		}
		history = append(history, msg)
		if state, ok := replayState[msg.Type]; ok {
			statut = state
		}
	}

	if len(history) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "checkout introuvable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"checkout_id": checkoutID,
		"statut":      statut,
		"evenements":  history,
	})
}

// OrdersByClient serves the CQRS projection for one client.
func (h *CheckoutHandlers) OrdersByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	doc, err := h.readModel.OrdersByClient(r.Context(), clientID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Health handles liveness probes
func (h *CheckoutHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "checkout-service"})
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.InitierCheckout)
	r.Route("/api/event-store", func(r chi.Router) {
		r.Get("/streams/{stream}/events", h.StreamEvents)
		r.Get("/replay/checkout/{checkout_id}", h.ReplayCheckout)
		r.Get("/cqrs/orders-by-client/{client_id}", h.OrdersByClient)
	})
	r.Get("/health", h.Health)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
