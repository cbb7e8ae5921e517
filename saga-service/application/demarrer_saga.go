package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// LigneCommandeInput is one requested order line.
type LigneCommandeInput struct {
	ProduitID string `json:"produit_id"`
	Quantite  int    `json:"quantite"`
}

// DemarrerSagaCommand is the command to start an orchestrated saga.
type DemarrerSagaCommand struct {
	ClientID  string               `json:"client_id"`
	MagasinID string               `json:"magasin_id"`
	Lignes    []LigneCommandeInput `json:"lignes"`
}

// DemarrerSagaResponse is the synchronous terminal result.
type DemarrerSagaResponse struct {
	SagaID          models.ID               `json:"saga_id"`
	EtatFinal       domain.EtatSaga         `json:"etat_final"`
	CommandeID      models.ID               `json:"commande_id,omitempty"`
	ResumeExecution *domain.ResumeExecution `json:"resume_execution"`
}

// DemarrerSaga builds the aggregate from the command and runs the
// orchestrator to a terminal state.
type DemarrerSaga struct {
	orchestrator *Orchestrator
	sagas        domain.SagaRepository
}

// NewDemarrerSaga creates the use case.
func NewDemarrerSaga(orchestrator *Orchestrator, sagas domain.SagaRepository) *DemarrerSaga {
	return &DemarrerSaga{orchestrator: orchestrator, sagas: sagas}
}

// Execute validates the command, persists the new aggregate and drives it
// to completion. On saga failure the partially built response still
// carries the saga id so callers can inspect the event history.
func (uc *DemarrerSaga) Execute(ctx context.Context, cmd *DemarrerSagaCommand) (*DemarrerSagaResponse, error) {
	clientID, err := models.NewID(cmd.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client_id")
	}
	magasinID, err := models.NewID(cmd.MagasinID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid magasin_id")
	}

	lignes := make([]domain.LigneCommande, 0, len(cmd.Lignes))
	for _, ligne := range cmd.Lignes {
		lignes = append(lignes, domain.LigneCommande{
			ProduitID: ligne.ProduitID,
			Quantite:  ligne.Quantite,
		})
	}

	saga, err := domain.NewSagaCommande(clientID, magasinID, lignes)
	if err != nil {
		return nil, err
	}
	if err := uc.sagas.Save(ctx, saga); err != nil {
		return nil, errors.Wrap(err, "failed to persist new saga")
	}

	resume, err := uc.orchestrator.Executer(ctx, saga)
	if err != nil {
		return &DemarrerSagaResponse{
			SagaID:          saga.ID,
			EtatFinal:       saga.EtatActuel,
			ResumeExecution: saga.Resume(),
		}, err
	}

	return &DemarrerSagaResponse{
		SagaID:          saga.ID,
		EtatFinal:       saga.EtatActuel,
		CommandeID:      saga.CommandeFinaleID,
		ResumeExecution: resume,
	}, nil
}
