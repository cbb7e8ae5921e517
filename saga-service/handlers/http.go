package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/application"
	"github.com/magasin-labs/checkout-system/saga-service/domain"
)

// SagaHandlers contains saga HTTP handlers
type SagaHandlers struct {
	demarrerSaga *application.DemarrerSaga
	getSaga      *application.GetSaga
}

// NewSagaHandlers creates new saga handlers
func NewSagaHandlers(demarrerSaga *application.DemarrerSaga, getSaga *application.GetSaga) *SagaHandlers {
	return &SagaHandlers{
		demarrerSaga: demarrerSaga,
		getSaga:      getSaga,
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	SagaID string `json:"saga_id,omitempty"`
}

// DemarrerSaga handles order creation requests. The saga runs to a
// terminal state before the response is written, so the status code
// reflects the business outcome, not just request acceptance.
func (h *SagaHandlers) DemarrerSaga(w http.ResponseWriter, r *http.Request) {
	var cmd application.DemarrerSagaCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	response, err := h.demarrerSaga.Execute(r.Context(), &cmd)
	if err != nil {
		h.writeSagaError(w, response, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// GetSaga handles saga state retrieval requests
func (h *SagaHandlers) GetSaga(w http.ResponseWriter, r *http.Request) {
	sagaID := chi.URLParam(r, "id")
	if sagaID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "saga ID is required"})
		return
	}

	saga, err := h.getSaga.Execute(r.Context(), sagaID)
	if err != nil {
		if errors.Is(err, domain.ErrSagaIntrouvable) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "saga introuvable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"saga":       saga,
		"resume":     saga.Resume(),
		"evenements": saga.Evenements,
	})
}

// Health handles liveness probes
func (h *SagaHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "saga-service"})
}

// writeSagaError maps the error kind to a status code. Business failures
// are client errors that still carry the saga id so the event history can
// be inspected; infrastructure failures are gateway or server errors.
func (h *SagaHandlers) writeSagaError(w http.ResponseWriter, response *application.DemarrerSagaResponse, err error) {
	body := errorResponse{Error: err.Error()}
	if response != nil {
		body.SagaID = response.SagaID.String()
	}

	var stockErr *domain.StockInsuffisantError
	var reservationErr *domain.ReservationEchecError
	var commandeErr *domain.CreationCommandeEchecError
	var externeErr *domain.ServiceExterneError

	switch {
	case errors.As(err, &stockErr), errors.As(err, &reservationErr), errors.As(err, &commandeErr):
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &externeErr):
		writeJSON(w, http.StatusBadGateway, body)
	default:
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// RegisterRoutes registers saga routes
func (h *SagaHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/saga", func(r chi.Router) {
		r.Post("/commandes", h.DemarrerSaga)
		r.Get("/commandes/{id}", h.GetSaga)
	})
	r.Get("/health", h.Health)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
