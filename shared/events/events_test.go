package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	validCart := Panier{Produits: []ProduitPanier{{ProduitID: "prod-1", Quantite: 2}}}

	tests := []struct {
		name          string
		eventType     string
		payload       any
		expectedError error
	}{
		{
			name:      "checkout initiated round trip",
			eventType: CheckoutInitiatedEvent,
			payload: CheckoutInitiated{
				CheckoutID: "chk-1",
				ClientID:   "client-1",
				Panier:     validCart,
				EmittedAt:  1700000000.5,
			},
		},
		{
			name:      "stock reserved round trip",
			eventType: StockReservedEvent,
			payload: StockReserved{
				CheckoutID: "chk-1",
				ClientID:   "client-1",
				Panier:     validCart,
			},
		},
		{
			name:      "order created round trip",
			eventType: OrderCreatedEvent,
			payload: OrderCreated{
				CheckoutID: "chk-1",
				CommandeID: "cmd-9",
				ClientID:   "client-1",
			},
		},
		{
			name:          "unknown event type",
			eventType:     "SomethingElse",
			payload:       map[string]string{"checkout_id": "chk-1"},
			expectedError: ErrUnknownEventType,
		},
		{
			name:          "missing checkout id",
			eventType:     CheckoutFailedEvent,
			payload:       CheckoutFailed{ClientID: "client-1"},
			expectedError: ErrInvalidPayload,
		},
		{
			name:          "empty cart rejected",
			eventType:     CheckoutInitiatedEvent,
			payload:       CheckoutInitiated{CheckoutID: "chk-1", ClientID: "client-1"},
			expectedError: ErrInvalidPayload,
		},
		{
			name:      "negative quantity rejected",
			eventType: CheckoutInitiatedEvent,
			payload: CheckoutInitiated{
				CheckoutID: "chk-1",
				ClientID:   "client-1",
				Panier:     Panier{Produits: []ProduitPanier{{ProduitID: "prod-1", Quantite: -1}}},
			},
			expectedError: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			decoded, err := Decode(tt.eventType, raw)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, decoded)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.eventType, decoded.EventType())

			reencoded, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(raw), string(reencoded))
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	decoded, err := Decode(CheckoutInitiatedEvent, json.RawMessage(`{"checkout_id": 42}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Nil(t, decoded)
}

func TestPanierValidate(t *testing.T) {
	assert.Error(t, Panier{}.Validate())
	assert.Error(t, Panier{Produits: []ProduitPanier{{ProduitID: "", Quantite: 1}}}.Validate())
	assert.Error(t, Panier{Produits: []ProduitPanier{{ProduitID: "p", Quantite: 0}}}.Validate())
	assert.NoError(t, Panier{Produits: []ProduitPanier{{ProduitID: "p", Quantite: 1}}}.Validate())
}
