package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// Orchestrator drives one SagaCommande synchronously through
// verify-stock, product enrichment, reserve-stock and order creation,
// persisting after every transition and compensating on partial failure.
// It holds no saga registry: each call owns the aggregate it was given.
type Orchestrator struct {
	inventaire domain.InventoryClient
	catalogue  domain.CatalogClient
	commandes  domain.OrdersClient
	sagas      domain.SagaRepository
	metrics    domain.MetricsCollector
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	inventaire domain.InventoryClient,
	catalogue domain.CatalogClient,
	commandes domain.OrdersClient,
	sagas domain.SagaRepository,
	metrics domain.MetricsCollector,
) *Orchestrator {
	return &Orchestrator{
		inventaire: inventaire,
		catalogue:  catalogue,
		commandes:  commandes,
		sagas:      sagas,
		metrics:    metrics,
	}
}

// Executer runs the saga to a terminal state. On failure the returned
// error carries the step's error kind; the saga always ends in
// SAGA_TERMINEE or SAGA_ANNULEE, with compensation applied whenever
// reservations were held.
func (o *Orchestrator) Executer(ctx context.Context, saga *domain.SagaCommande) (*domain.ResumeExecution, error) {
	start := time.Now()
	o.metrics.RecordSagaStarted(saga)

	if err := saga.Transitionner(domain.VerificationStock, domain.SagaDemarre, nil,
		"Saga demarree, verification du stock"); err != nil {
		return nil, err
	}
	if err := o.sagas.Save(ctx, saga); err != nil {
		return nil, errors.Wrap(err, "failed to persist saga start")
	}

	steps := []struct {
		nom string
		run func(context.Context, *domain.SagaCommande) error
	}{
		{"VERIFICATION_STOCK", o.verifierStock},
		{"RECUPERATION_PRODUIT", o.recupererInformationsProduit},
		{"RESERVATION_STOCK", o.reserverStock},
		{"CREATION_COMMANDE", o.creerCommande},
	}
	for _, step := range steps {
		if err := step.run(ctx, saga); err != nil {
			o.metrics.RecordSagaStep(saga, step.nom, "FAILURE")
			o.echouer(ctx, saga, err, start)
			return nil, err
		}
		o.metrics.RecordSagaStep(saga, step.nom, "SUCCESS")
		if err := o.sagas.Save(ctx, saga); err != nil {
			return nil, errors.Wrapf(err, "failed to persist saga after %s", step.nom)
		}
	}

	if err := saga.Transitionner(domain.SagaTerminee, domain.SagaTermineeSucces, nil,
		"Saga terminee avec succes"); err != nil {
		return nil, err
	}
	if err := o.sagas.Save(ctx, saga); err != nil {
		return nil, errors.Wrap(err, "failed to persist terminal saga")
	}

	o.metrics.RecordSagaCompleted(saga, time.Since(start))
	return saga.Resume(), nil
}

// verifierStock requires, for every line, available quantity >= requested
// quantity in the saga's store. The first shortfall fails the whole step.
func (o *Orchestrator) verifierStock(ctx context.Context, saga *domain.SagaCommande) error {
	stocks, err := o.inventaire.StocksLocaux(ctx, saga.MagasinID)
	if err != nil {
		return err
	}

	parProduit := make(map[string]domain.StockLocal, len(stocks))
	for _, stock := range stocks {
		parProduit[stock.ProduitID] = stock
	}

	for _, ligne := range saga.LignesCommande {
		stock, ok := parProduit[ligne.ProduitID]
		if !ok {
			return &domain.StockInsuffisantError{
				ProduitID:        ligne.ProduitID,
				QuantiteDemandee: ligne.Quantite,
			}
		}
		if stock.Quantite < ligne.Quantite {
			return &domain.StockInsuffisantError{
				ProduitID:          ligne.ProduitID,
				QuantiteDemandee:   ligne.Quantite,
				QuantiteDisponible: stock.Quantite,
			}
		}
	}

	return saga.Transitionner(domain.StockVerifie, domain.StockVerifieSucces, nil,
		"Stock verifie pour tous les produits")
}

// recupererInformationsProduit enriches each line with name and price
// from the catalog. No state transition: informational only.
func (o *Orchestrator) recupererInformationsProduit(ctx context.Context, saga *domain.SagaCommande) error {
	infos := make(map[string]any, len(saga.LignesCommande))
	for i := range saga.LignesCommande {
		ligne := &saga.LignesCommande[i]
		produit, err := o.catalogue.Produit(ctx, ligne.ProduitID)
		if err != nil {
			return err
		}
		ligne.NomProduit = produit.Nom
		ligne.PrixUnitaire = produit.Prix
		infos[ligne.ProduitID] = produit
	}
	saga.DonneesContexte["informations_produits"] = infos
	return nil
}

// reserverStock decrements stock line by line, recording one reservation
// token per product. Reservations are all-or-nothing: any failure
// releases every reservation already made in this step before returning.
func (o *Orchestrator) reserverStock(ctx context.Context, saga *domain.SagaCommande) error {
	if err := saga.Transitionner(domain.ReservationStock, domain.StockVerifieSucces, nil,
		"Debut de la reservation de stock"); err != nil {
		return err
	}

	for _, ligne := range saga.LignesCommande {
		cle := reservationKey(saga, ligne.ProduitID)
		if err := o.inventaire.DiminuerStock(ctx, ligne.ProduitID, ligne.Quantite, saga.MagasinID, cle); err != nil {
			o.libererReservations(ctx, saga)
			return err
		}
		saga.AjouterReservationStock(ligne.ProduitID, cle)
	}

	reservations := make([]string, 0, len(saga.ReservationStockIDs))
	for _, id := range saga.ReservationStockIDs {
		reservations = append(reservations, id)
	}
	return saga.Transitionner(domain.StockReserve, domain.StockReserveSucces,
		map[string]any{"reservations": reservations},
		fmt.Sprintf("Stock reserve pour %d produits", len(saga.LignesCommande)))
}

// creerCommande registers the sale with the orders service. The orders
// contract takes a single line, so the first line carries the sale.
func (o *Orchestrator) creerCommande(ctx context.Context, saga *domain.SagaCommande) error {
	if err := saga.Transitionner(domain.CreationCommande, domain.StockReserveSucces, nil,
		"Debut de la creation de commande"); err != nil {
		return err
	}

	premiere := saga.LignesCommande[0]
	venteID, err := o.commandes.EnregistrerVente(ctx, saga.MagasinID, saga.ClientID,
		premiere.ProduitID, premiere.Quantite)
	if err != nil {
		return err
	}
	saga.CommandeFinaleID = models.ID(venteID)

	return saga.Transitionner(domain.CommandeCreee, domain.CommandeCreeeSucces,
		map[string]any{"commande_id": venteID},
		fmt.Sprintf("Commande creee: %s", venteID))
}

// echouer resolves the step error to its failure state, compensates when
// reservations are still held and drives the saga to SAGA_ANNULEE.
// Compensation errors are logged, never raised: the original failure is
// what callers see.
func (o *Orchestrator) echouer(ctx context.Context, saga *domain.SagaCommande, cause error, start time.Time) {
	duree := time.Since(start)
	log.Printf("saga %s failed in state %s: %v", saga.ID, saga.EtatActuel, cause)

	etatEchec, typeEvt, typeEchec, etapeEchec := o.classifier(saga, cause)

	if saga.EtatActuel != etatEchec {
		// Enrichment failures arrive in STOCK_VERIFIE, whose only exit
		// is RESERVATION_STOCK. Bridge through it so the saga can still
		// reach its failure state without leaving the table.
		if saga.EtatActuel == domain.StockVerifie && etatEchec == domain.EchecReservationStock {
			saga.Transitionner(domain.ReservationStock, domain.StockVerifieSucces, nil,
				"Passage en reservation pour clore la saga")
		}
		if err := saga.Transitionner(etatEchec, typeEvt,
			map[string]any{"erreur": cause.Error()},
			fmt.Sprintf("Echec lors de %s", etapeEchec)); err != nil {
			log.Printf("saga %s: could not enter failure state: %v", saga.ID, err)
		}
	}

	if saga.NecessiteCompensation() {
		o.executerCompensation(ctx, saga)
	} else if !saga.EstTerminee() {
		// No reservations to undo: walk the failure path straight to
		// cancellation.
		if saga.EtatActuel == domain.EchecCreationCommande {
			saga.Transitionner(domain.CompensationEnCours, domain.CompensationDemandee, nil,
				"Compensation en cours apres echec commande")
		}
		if err := saga.Transitionner(domain.SagaAnnulee, domain.CompensationTerminee, nil,
			"Saga annulee apres echec"); err != nil {
			log.Printf("saga %s: could not cancel: %v", saga.ID, err)
		}
	}

	o.metrics.RecordSagaFailed(saga, typeEchec, etapeEchec, duree)
	if err := o.sagas.Save(ctx, saga); err != nil {
		log.Printf("saga %s: failed to persist failure state: %v", saga.ID, err)
	}
}

// executerCompensation releases every held reservation, then cancels the
// saga. A release that fails leaves its token tracked and flags the saga
// for manual review.
func (o *Orchestrator) executerCompensation(ctx context.Context, saga *domain.SagaCommande) {
	// ECHEC_RESERVATION_STOCK exits straight to SAGA_ANNULEE: step 3
	// already released inline, so a token still tracked here means a
	// release failed and gets one more attempt before closing.
	if saga.EtatActuel != domain.EchecReservationStock {
		if err := saga.Transitionner(domain.CompensationEnCours, domain.CompensationDemandee, nil,
			"Debut de la compensation"); err != nil {
			log.Printf("saga %s: cannot start compensation: %v", saga.ID, err)
		}
	}
	o.metrics.RecordCompensation(saga, "LIBERATION_STOCK")

	o.libererReservations(ctx, saga)
	if len(saga.ReservationStockIDs) > 0 {
		saga.DonneesContexte["compensation_incomplete"] = true
	}

	if err := saga.Transitionner(domain.SagaAnnulee, domain.CompensationTerminee, nil,
		"Compensation terminee, saga annulee"); err != nil {
		log.Printf("saga %s: could not cancel after compensation: %v", saga.ID, err)
	}
}

// libererReservations restores stock for every tracked reservation,
// best-effort per line. Only successfully released tokens are removed,
// so a second pass never double-releases beyond the tracked set.
func (o *Orchestrator) libererReservations(ctx context.Context, saga *domain.SagaCommande) {
	for _, ligne := range saga.LignesCommande {
		cle, ok := saga.ReservationStockIDs[ligne.ProduitID]
		if !ok {
			continue
		}
		if err := o.inventaire.AugmenterStock(ctx, ligne.ProduitID, ligne.Quantite, saga.MagasinID, cle); err != nil {
			log.Printf("saga %s: failed to release stock for produit %s: %v", saga.ID, ligne.ProduitID, err)
			continue
		}
		saga.RetirerReservationStock(ligne.ProduitID)
	}
}

// classifier maps the step error to the failure state, the transition
// event type and the metric labels.
func (o *Orchestrator) classifier(saga *domain.SagaCommande, cause error) (domain.EtatSaga, domain.TypeEvenement, string, string) {
	var stockErr *domain.StockInsuffisantError
	var reservationErr *domain.ReservationEchecError
	var commandeErr *domain.CreationCommandeEchecError

	switch {
	case errors.As(cause, &stockErr):
		// A server-side shortfall during reservation is a reservation
		// failure; only the verification step can cancel without
		// compensation.
		if saga.EtatActuel == domain.ReservationStock {
			return domain.EchecReservationStock, domain.StockReserveEchec, "STOCK_INSUFFISANT", "RESERVATION_STOCK"
		}
		return domain.EchecStockInsuffisant, domain.StockVerifieEchec, "STOCK_INSUFFISANT", "VERIFICATION_STOCK"
	case errors.As(cause, &reservationErr):
		return domain.EchecReservationStock, domain.StockReserveEchec, "RESERVATION_ECHEC", "RESERVATION_STOCK"
	case errors.As(cause, &commandeErr):
		return domain.EchecCreationCommande, domain.CommandeCreeeEchec, "CREATION_ECHEC", "CREATION_COMMANDE"
	}

	// Technical failures resolve by where the saga currently stands.
	switch saga.EtatActuel {
	case domain.StockVerifie:
		// Only the enrichment step runs in this state. Nothing is
		// reserved yet, so the reservation failure path fits and can
		// be reached through RESERVATION_STOCK.
		return domain.EchecReservationStock, domain.StockReserveEchec, "ERREUR_TECHNIQUE", "RECUPERATION_PRODUIT"
	case domain.ReservationStock, domain.StockReserve:
		return domain.EchecReservationStock, domain.StockReserveEchec, "ERREUR_TECHNIQUE", "RESERVATION_STOCK"
	case domain.CreationCommande, domain.CommandeCreee:
		return domain.EchecCreationCommande, domain.CommandeCreeeEchec, "ERREUR_TECHNIQUE", "CREATION_COMMANDE"
	default:
		return domain.EchecStockInsuffisant, domain.StockVerifieEchec, "ERREUR_TECHNIQUE", "VERIFICATION_STOCK"
	}
}

func reservationKey(saga *domain.SagaCommande, produitID string) string {
	return fmt.Sprintf("reservation_%s_%s", saga.ID, produitID)
}
