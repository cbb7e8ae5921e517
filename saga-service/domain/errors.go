package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSagaIntrouvable is returned when no saga exists for an id.
var ErrSagaIntrouvable = errors.New("saga introuvable")

// StockInsuffisantError is a business rule violation: the store cannot
// cover the requested quantity. It is never retried and never compensated
// (nothing was reserved yet).
type StockInsuffisantError struct {
	ProduitID          string
	QuantiteDemandee   int
	QuantiteDisponible int
}

func (e *StockInsuffisantError) Error() string {
	return fmt.Sprintf("stock insuffisant pour produit %s: demande %d, disponible %d",
		e.ProduitID, e.QuantiteDemandee, e.QuantiteDisponible)
}

// ReservationEchecError is a partial failure during the multi-item
// reservation step. The step releases its own partial reservations inline
// before surfacing this error.
type ReservationEchecError struct {
	ProduitID string
	Raison    string
}

func (e *ReservationEchecError) Error() string {
	return fmt.Sprintf("echec reservation stock produit %s: %s", e.ProduitID, e.Raison)
}

// CreationCommandeEchecError is a post-reservation failure; every held
// reservation must be compensated.
type CreationCommandeEchecError struct {
	Raison string
}

func (e *CreationCommandeEchecError) Error() string {
	return fmt.Sprintf("echec creation commande: %s", e.Raison)
}

// ServiceExterneError wraps a network failure or unexpected status from a
// collaborator service.
type ServiceExterneError struct {
	Service string
	Action  string
	Err     error
}

func (e *ServiceExterneError) Error() string {
	return fmt.Sprintf("service %s indisponible pour l'action %s: %v", e.Service, e.Action, e.Err)
}

func (e *ServiceExterneError) Unwrap() error { return e.Err }

// TransitionInvalideError reports a state change absent from the
// transition table. The aggregate is left untouched.
type TransitionInvalideError struct {
	EtatActuel EtatSaga
	NouvelEtat EtatSaga
}

func (e *TransitionInvalideError) Error() string {
	return fmt.Sprintf("transition invalide de %s vers %s", e.EtatActuel, e.NouvelEtat)
}
