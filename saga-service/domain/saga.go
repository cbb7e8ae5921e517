package domain

import (
	"time"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/shared/models"
)

// EtatSaga represents one state of the order saga state machine.
type EtatSaga string

const (
	EnAttente         EtatSaga = "EN_ATTENTE"
	VerificationStock EtatSaga = "VERIFICATION_STOCK"
	StockVerifie      EtatSaga = "STOCK_VERIFIE"
	ReservationStock  EtatSaga = "RESERVATION_STOCK"
	StockReserve      EtatSaga = "STOCK_RESERVE"
	CreationCommande  EtatSaga = "CREATION_COMMANDE"
	CommandeCreee     EtatSaga = "COMMANDE_CREEE"
	SagaTerminee      EtatSaga = "SAGA_TERMINEE"

	EchecStockInsuffisant EtatSaga = "ECHEC_STOCK_INSUFFISANT"
	EchecReservationStock EtatSaga = "ECHEC_RESERVATION_STOCK"
	EchecCreationCommande EtatSaga = "ECHEC_CREATION_COMMANDE"
	CompensationEnCours   EtatSaga = "COMPENSATION_EN_COURS"
	SagaAnnulee           EtatSaga = "SAGA_ANNULEE"
)

// TypeEvenement identifies what happened on a transition.
type TypeEvenement string

const (
	SagaDemarre          TypeEvenement = "SAGA_DEMARRE"
	StockVerifieSucces   TypeEvenement = "STOCK_VERIFIE_SUCCES"
	StockVerifieEchec    TypeEvenement = "STOCK_VERIFIE_ECHEC"
	StockReserveSucces   TypeEvenement = "STOCK_RESERVE_SUCCES"
	StockReserveEchec    TypeEvenement = "STOCK_RESERVE_ECHEC"
	CommandeCreeeSucces  TypeEvenement = "COMMANDE_CREEE_SUCCES"
	CommandeCreeeEchec   TypeEvenement = "COMMANDE_CREEE_ECHEC"
	CompensationDemandee TypeEvenement = "COMPENSATION_DEMANDEE"
	CompensationTerminee TypeEvenement = "COMPENSATION_TERMINEE"
	SagaTermineeSucces   TypeEvenement = "SAGA_TERMINEE_SUCCES"
)

// TransitionsValides is the fixed transition table. A saga may only move
// to a state listed for its current one.
var TransitionsValides = map[EtatSaga][]EtatSaga{
	EnAttente:             {VerificationStock},
	VerificationStock:     {StockVerifie, EchecStockInsuffisant},
	StockVerifie:          {ReservationStock},
	ReservationStock:      {StockReserve, EchecReservationStock},
	StockReserve:          {CreationCommande},
	CreationCommande:      {CommandeCreee, EchecCreationCommande},
	CommandeCreee:         {SagaTerminee},
	EchecStockInsuffisant: {SagaAnnulee},
	EchecReservationStock: {SagaAnnulee},
	EchecCreationCommande: {CompensationEnCours},
	CompensationEnCours:   {SagaAnnulee},
}

// PeutTransitionner reports whether the table allows moving from one
// state to another.
func PeutTransitionner(de, vers EtatSaga) bool {
	for _, cible := range TransitionsValides[de] {
		if cible == vers {
			return true
		}
	}
	return false
}

// LigneCommande is one order line. NomProduit and PrixUnitaire are
// populated during the saga from the catalog service, not at creation.
type LigneCommande struct {
	ProduitID    string  `json:"produit_id"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prix_unitaire"`
	NomProduit   string  `json:"nom_produit"`
}

// MontantLigne returns the line total.
func (l LigneCommande) MontantLigne() float64 {
	return float64(l.Quantite) * l.PrixUnitaire
}

// EvenementSaga is one immutable entry of the saga audit trail.
type EvenementSaga struct {
	ID            models.ID      `json:"id"`
	TypeEvenement TypeEvenement  `json:"type_evenement"`
	Timestamp     time.Time      `json:"timestamp"`
	EtatPrecedent EtatSaga       `json:"etat_precedent"`
	NouvelEtat    EtatSaga       `json:"nouvel_etat"`
	Donnees       map[string]any `json:"donnees"`
	Message       string         `json:"message"`
}

// SagaCommande is the aggregate root, one instance per checkout attempt.
// Its state only changes through Transitionner, which enforces the
// transition table and appends to the event log.
type SagaCommande struct {
	ID             models.ID       `json:"saga_id"`
	ClientID       models.ID       `json:"client_id"`
	MagasinID      models.ID       `json:"magasin_id"`
	LignesCommande []LigneCommande `json:"lignes_commande"`
	EtatActuel     EtatSaga        `json:"etat_actuel"`
	Evenements     []EvenementSaga `json:"evenements"`
	Timestamps     models.Timestamps

	// Cross-service coordination data.
	ReservationStockIDs map[string]string `json:"reservation_stock_ids"`
	CommandeFinaleID    models.ID         `json:"commande_finale_id"`
	DonneesContexte     map[string]any    `json:"donnees_contexte"`

	// Derived observability data, recomputed on each transition.
	DureeEtapes        map[string]float64 `json:"duree_par_etape"`
	TentativesParEtape map[string]int     `json:"tentatives_par_etape"`
}

// NewSagaCommande creates a saga in EN_ATTENTE. At least one line is
// required and every quantity must be positive.
func NewSagaCommande(clientID, magasinID models.ID, lignes []LigneCommande) (*SagaCommande, error) {
	if clientID.IsZero() {
		return nil, errors.New("client_id is required")
	}
	if magasinID.IsZero() {
		return nil, errors.New("magasin_id is required")
	}
	if len(lignes) == 0 {
		return nil, errors.New("at least one order line is required")
	}
	for _, ligne := range lignes {
		if ligne.ProduitID == "" {
			return nil, errors.New("produit_id is required on every line")
		}
		if ligne.Quantite <= 0 {
			return nil, errors.Errorf("quantite must be positive for produit %s", ligne.ProduitID)
		}
		if ligne.PrixUnitaire < 0 {
			return nil, errors.Errorf("prix_unitaire cannot be negative for produit %s", ligne.ProduitID)
		}
	}

	return &SagaCommande{
		ID:                  models.GenerateUUID(),
		ClientID:            clientID,
		MagasinID:           magasinID,
		LignesCommande:      lignes,
		EtatActuel:          EnAttente,
		Timestamps:          models.NewTimestamps(),
		ReservationStockIDs: make(map[string]string),
		DonneesContexte:     make(map[string]any),
		DureeEtapes:         make(map[string]float64),
		TentativesParEtape:  make(map[string]int),
	}, nil
}

// MontantTotal is the order total across all lines.
func (s *SagaCommande) MontantTotal() float64 {
	var total float64
	for _, ligne := range s.LignesCommande {
		total += ligne.MontantLigne()
	}
	return total
}

// QuantiteTotaleArticles is the article count across all lines.
func (s *SagaCommande) QuantiteTotaleArticles() int {
	var total int
	for _, ligne := range s.LignesCommande {
		total += ligne.Quantite
	}
	return total
}

// EstTerminee reports whether the saga reached a terminal state.
func (s *SagaCommande) EstTerminee() bool {
	return s.EtatActuel == SagaTerminee || s.EtatActuel == SagaAnnulee
}

// EstEnEchec reports whether the saga is on the failure path.
func (s *SagaCommande) EstEnEchec() bool {
	switch s.EtatActuel {
	case EchecStockInsuffisant, EchecReservationStock, EchecCreationCommande,
		CompensationEnCours, SagaAnnulee:
		return true
	}
	return false
}

// NecessiteCompensation is true iff reservations exist that were never
// released: the saga failed, holds at least one reservation, and is not
// in a state where compensation is impossible or already done.
func (s *SagaCommande) NecessiteCompensation() bool {
	return s.EstEnEchec() &&
		len(s.ReservationStockIDs) > 0 &&
		s.EtatActuel != EchecStockInsuffisant &&
		s.EtatActuel != SagaAnnulee
}

// Transitionner moves the saga to a new state. A transition absent from
// the table fails with TransitionInvalideError and leaves the aggregate
// unchanged. A successful transition appends one EvenementSaga, bumps the
// last-modified timestamp and recomputes the step duration and attempt
// counter.
func (s *SagaCommande) Transitionner(nouvelEtat EtatSaga, typeEvt TypeEvenement, donnees map[string]any, message string) error {
	if !PeutTransitionner(s.EtatActuel, nouvelEtat) {
		return &TransitionInvalideError{EtatActuel: s.EtatActuel, NouvelEtat: nouvelEtat}
	}

	if donnees == nil {
		donnees = map[string]any{}
	}
	evenement := EvenementSaga{
		ID:            models.GenerateUUID(),
		TypeEvenement: typeEvt,
		Timestamp:     time.Now(),
		EtatPrecedent: s.EtatActuel,
		NouvelEtat:    nouvelEtat,
		Donnees:       donnees,
		Message:       message,
	}

	ancienEtat := s.EtatActuel
	s.EtatActuel = nouvelEtat
	s.Timestamps = s.Timestamps.Update()
	s.Evenements = append(s.Evenements, evenement)
	s.mettreAJourMetriques(ancienEtat, nouvelEtat)
	return nil
}

func (s *SagaCommande) mettreAJourMetriques(ancienEtat, nouvelEtat EtatSaga) {
	if len(s.Evenements) >= 2 {
		duree := s.Evenements[len(s.Evenements)-1].Timestamp.Sub(s.Evenements[len(s.Evenements)-2].Timestamp)
		s.DureeEtapes[string(ancienEtat)] = duree.Seconds()
	}
	s.TentativesParEtape[string(nouvelEtat)]++
}

// AjouterReservationStock records a reservation token for a product. The
// map only grows here; compensation is the only place it shrinks.
func (s *SagaCommande) AjouterReservationStock(produitID, reservationID string) {
	s.ReservationStockIDs[produitID] = reservationID
}

// RetirerReservationStock drops a released reservation so running
// compensation twice never double-releases beyond the tracked set.
func (s *SagaCommande) RetirerReservationStock(produitID string) {
	delete(s.ReservationStockIDs, produitID)
}

// ResumeExecution is the execution summary returned to API callers.
type ResumeExecution struct {
	SagaID                   models.ID          `json:"saga_id"`
	ClientID                 models.ID          `json:"client_id"`
	MagasinID                models.ID          `json:"magasin_id"`
	EtatActuel               EtatSaga           `json:"etat_actuel"`
	EstTerminee              bool               `json:"est_terminee"`
	EstEnEchec               bool               `json:"est_en_echec"`
	NecessiteCompensation    bool               `json:"necessite_compensation"`
	MontantTotal             float64            `json:"montant_total"`
	QuantiteTotaleArticles   int                `json:"quantite_totale_articles"`
	NombreLignes             int                `json:"nombre_lignes"`
	NombreEvenements         int                `json:"nombre_evenements"`
	DureeTotaleSecondes      float64            `json:"duree_totale_secondes"`
	DureeParEtape            map[string]float64 `json:"duree_par_etape"`
	TentativesParEtape       map[string]int     `json:"tentatives_par_etape"`
	ReservationsActives      int                `json:"reservations_actives"`
	CommandeFinaleID         models.ID          `json:"commande_finale_id"`
	DateCreation             time.Time          `json:"date_creation"`
	DateDerniereModification time.Time          `json:"date_derniere_modification"`
}

// Resume builds the execution summary from the current aggregate state.
func (s *SagaCommande) Resume() *ResumeExecution {
	var dureeTotale float64
	if len(s.Evenements) > 0 {
		dureeTotale = s.Evenements[len(s.Evenements)-1].Timestamp.
			Sub(s.Evenements[0].Timestamp).Seconds()
	}
	return &ResumeExecution{
		SagaID:                   s.ID,
		ClientID:                 s.ClientID,
		MagasinID:                s.MagasinID,
		EtatActuel:               s.EtatActuel,
		EstTerminee:              s.EstTerminee(),
		EstEnEchec:               s.EstEnEchec(),
		NecessiteCompensation:    s.NecessiteCompensation(),
		MontantTotal:             s.MontantTotal(),
		QuantiteTotaleArticles:   s.QuantiteTotaleArticles(),
		NombreLignes:             len(s.LignesCommande),
		NombreEvenements:         len(s.Evenements),
		DureeTotaleSecondes:      dureeTotale,
		DureeParEtape:            s.DureeEtapes,
		TentativesParEtape:       s.TentativesParEtape,
		ReservationsActives:      len(s.ReservationStockIDs),
		CommandeFinaleID:         s.CommandeFinaleID,
		DateCreation:             s.Timestamps.CreatedAt,
		DateDerniereModification: s.Timestamps.UpdatedAt,
	}
}
