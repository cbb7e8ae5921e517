package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrUnknownEventType = errors.New("unknown event type")
)

// TopicCheckout is the single shared stream carrying every checkout
// lifecycle event. Workers compete inside per-role consumer groups.
const TopicCheckout = "ecommerce.checkout.events"

// Consumer group names, one per worker role.
const (
	GroupReservation  = "choreo-reservation"
	GroupOrder        = "choreo-order"
	GroupCompensation = "choreo-compensation"
	GroupAudit        = "checkout-audit"
	GroupCQRS         = "checkout-cqrs"
)

// Event Types
const (
	CheckoutInitiatedEvent      = "CheckoutInitiated"
	StockReservedEvent          = "StockReserved"
	StockReservationFailedEvent = "StockReservationFailed"
	OrderCreatedEvent           = "OrderCreated"
	OrderCreationFailedEvent    = "OrderCreationFailed"
	CheckoutSucceededEvent      = "CheckoutSucceeded"
	CheckoutFailedEvent         = "CheckoutFailed"
	StockReleasedEvent          = "StockReleased"
)

// Payload is a typed event body. Every payload knows its event type and
// validates itself at the serialization boundary, both on publish and on
// consume.
type Payload interface {
	EventType() string
	Validate() error
}

// ProduitPanier is one cart line.
type ProduitPanier struct {
	ProduitID string `json:"produit_id"`
	Quantite  int    `json:"quantite"`
}

// Panier is the cart carried inside checkout events. Events embed the full
// cart so a worker never needs to look up prior events to act.
type Panier struct {
	Produits []ProduitPanier `json:"produits"`
}

// Validate checks every cart line.
func (p Panier) Validate() error {
	if len(p.Produits) == 0 {
		return fmt.Errorf("%w: panier is empty", ErrInvalidPayload)
	}
	for i, ligne := range p.Produits {
		if ligne.ProduitID == "" {
			return fmt.Errorf("%w: produit_id missing at line %d", ErrInvalidPayload, i)
		}
		if ligne.Quantite <= 0 {
			return fmt.Errorf("%w: quantite must be positive at line %d", ErrInvalidPayload, i)
		}
	}
	return nil
}

// CheckoutInitiated starts a choreographed checkout.
type CheckoutInitiated struct {
	CheckoutID string  `json:"checkout_id"`
	ClientID   string  `json:"client_id"`
	Panier     Panier  `json:"panier"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e CheckoutInitiated) EventType() string { return CheckoutInitiatedEvent }

func (e CheckoutInitiated) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	if e.ClientID == "" {
		return fmt.Errorf("%w: client_id is required", ErrInvalidPayload)
	}
	return e.Panier.Validate()
}

// StockReserved signals every cart line was decremented.
type StockReserved struct {
	CheckoutID string  `json:"checkout_id"`
	ClientID   string  `json:"client_id"`
	Panier     Panier  `json:"panier"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e StockReserved) EventType() string { return StockReservedEvent }

func (e StockReserved) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return e.Panier.Validate()
}

// StockReservationFailed carries the cart forward so the compensation
// worker can release whatever the inventory endpoint already applied.
type StockReservationFailed struct {
	CheckoutID string  `json:"checkout_id"`
	ClientID   string  `json:"client_id"`
	Reason     string  `json:"reason"`
	Panier     Panier  `json:"panier"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e StockReservationFailed) EventType() string { return StockReservationFailedEvent }

func (e StockReservationFailed) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return nil
}

// OrderCreated signals the downstream order exists.
type OrderCreated struct {
	CheckoutID string  `json:"checkout_id"`
	CommandeID string  `json:"commande_id"`
	ClientID   string  `json:"client_id"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e OrderCreated) EventType() string { return OrderCreatedEvent }

func (e OrderCreated) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	if e.CommandeID == "" {
		return fmt.Errorf("%w: commande_id is required", ErrInvalidPayload)
	}
	return nil
}

// OrderCreationFailed triggers compensation of the reserved stock.
type OrderCreationFailed struct {
	CheckoutID string  `json:"checkout_id"`
	ClientID   string  `json:"client_id"`
	Reason     string  `json:"reason"`
	Panier     Panier  `json:"panier"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e OrderCreationFailed) EventType() string { return OrderCreationFailedEvent }

func (e OrderCreationFailed) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return nil
}

// CheckoutSucceeded is the terminal success event.
type CheckoutSucceeded struct {
	CheckoutID string  `json:"checkout_id"`
	CommandeID string  `json:"commande_id"`
	ClientID   string  `json:"client_id"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e CheckoutSucceeded) EventType() string { return CheckoutSucceededEvent }

func (e CheckoutSucceeded) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return nil
}

// CheckoutFailed is the terminal failure event.
type CheckoutFailed struct {
	CheckoutID string  `json:"checkout_id"`
	ClientID   string  `json:"client_id"`
	Reason     string  `json:"reason"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e CheckoutFailed) EventType() string { return CheckoutFailedEvent }

func (e CheckoutFailed) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return nil
}

// StockReleased signals compensation ran for a checkout.
type StockReleased struct {
	CheckoutID string  `json:"checkout_id"`
	EmittedAt  float64 `json:"emitted_at"`
}

func (e StockReleased) EventType() string { return StockReleasedEvent }

func (e StockReleased) Validate() error {
	if e.CheckoutID == "" {
		return fmt.Errorf("%w: checkout_id is required", ErrInvalidPayload)
	}
	return nil
}

// Decode unmarshals a raw payload into its typed struct and validates it.
// Unknown event types return ErrUnknownEventType so observational
// consumers can fall through to the raw payload.
func Decode(eventType string, raw json.RawMessage) (Payload, error) {
	var payload Payload
	switch eventType {
	case CheckoutInitiatedEvent:
		payload = &CheckoutInitiated{}
	case StockReservedEvent:
		payload = &StockReserved{}
	case StockReservationFailedEvent:
		payload = &StockReservationFailed{}
	case OrderCreatedEvent:
		payload = &OrderCreated{}
	case OrderCreationFailedEvent:
		payload = &OrderCreationFailed{}
	case CheckoutSucceededEvent:
		payload = &CheckoutSucceeded{}
	case CheckoutFailedEvent:
		payload = &CheckoutFailed{}
	case StockReleasedEvent:
		payload = &StockReleased{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}
