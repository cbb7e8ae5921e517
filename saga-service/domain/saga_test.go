package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magasin-labs/checkout-system/shared/models"
)

func validLignes() []LigneCommande {
	return []LigneCommande{
		{ProduitID: "prod-1", Quantite: 2, PrixUnitaire: 10.5},
		{ProduitID: "prod-2", Quantite: 1, PrixUnitaire: 4},
	}
}

func newTestSaga(t *testing.T) *SagaCommande {
	t.Helper()
	saga, err := NewSagaCommande(models.GenerateUUID(), models.GenerateUUID(), validLignes())
	require.NoError(t, err)
	return saga
}

func TestNewSagaCommande(t *testing.T) {
	clientID := models.GenerateUUID()
	magasinID := models.GenerateUUID()

	tests := []struct {
		name          string
		clientID      models.ID
		magasinID     models.ID
		lignes        []LigneCommande
		expectedError string
	}{
		{
			name:      "valid saga",
			clientID:  clientID,
			magasinID: magasinID,
			lignes:    validLignes(),
		},
		{
			name:          "missing client",
			magasinID:     magasinID,
			lignes:        validLignes(),
			expectedError: "client_id is required",
		},
		{
			name:          "missing magasin",
			clientID:      clientID,
			expectedError: "magasin_id is required",
			lignes:        validLignes(),
		},
		{
			name:          "no lines",
			clientID:      clientID,
			magasinID:     magasinID,
			lignes:        nil,
			expectedError: "at least one order line is required",
		},
		{
			name:          "zero quantity",
			clientID:      clientID,
			magasinID:     magasinID,
			lignes:        []LigneCommande{{ProduitID: "prod-1", Quantite: 0}},
			expectedError: "quantite must be positive",
		},
		{
			name:          "negative price",
			clientID:      clientID,
			magasinID:     magasinID,
			lignes:        []LigneCommande{{ProduitID: "prod-1", Quantite: 1, PrixUnitaire: -1}},
			expectedError: "prix_unitaire cannot be negative",
		},
		{
			name:          "missing produit id",
			clientID:      clientID,
			magasinID:     magasinID,
			lignes:        []LigneCommande{{Quantite: 1}},
			expectedError: "produit_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saga, err := NewSagaCommande(tt.clientID, tt.magasinID, tt.lignes)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, saga)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, EnAttente, saga.EtatActuel)
			assert.False(t, saga.ID.IsZero())
			assert.Empty(t, saga.Evenements)
			assert.NotNil(t, saga.ReservationStockIDs)
		})
	}
}

func TestTransitionTable(t *testing.T) {
	// Every allowed edge, walked pairwise.
	for de, cibles := range TransitionsValides {
		for _, vers := range cibles {
			assert.True(t, PeutTransitionner(de, vers), "expected %s -> %s to be allowed", de, vers)
		}
	}

	// Terminal states have no outgoing edges.
	assert.Empty(t, TransitionsValides[SagaTerminee])
	assert.Empty(t, TransitionsValides[SagaAnnulee])

	// A few forbidden edges that would corrupt the saga.
	assert.False(t, PeutTransitionner(EnAttente, SagaTerminee))
	assert.False(t, PeutTransitionner(VerificationStock, CreationCommande))
	assert.False(t, PeutTransitionner(ReservationStock, EchecStockInsuffisant))
	assert.False(t, PeutTransitionner(EchecCreationCommande, SagaAnnulee))
	assert.False(t, PeutTransitionner(SagaAnnulee, EnAttente))
}

func TestTransitionnerAppendsEvent(t *testing.T) {
	saga := newTestSaga(t)

	err := saga.Transitionner(VerificationStock, SagaDemarre, map[string]any{"note": "start"}, "saga demarree")
	require.NoError(t, err)

	assert.Equal(t, VerificationStock, saga.EtatActuel)
	require.Len(t, saga.Evenements, 1)
	evt := saga.Evenements[0]
	assert.Equal(t, SagaDemarre, evt.TypeEvenement)
	assert.Equal(t, EnAttente, evt.EtatPrecedent)
	assert.Equal(t, VerificationStock, evt.NouvelEtat)
	assert.Equal(t, "saga demarree", evt.Message)
	assert.Equal(t, "start", evt.Donnees["note"])
	assert.Equal(t, 1, saga.TentativesParEtape[string(VerificationStock)])
}

func TestTransitionnerInvalidLeavesStateUnchanged(t *testing.T) {
	saga := newTestSaga(t)

	err := saga.Transitionner(SagaTerminee, SagaTermineeSucces, nil, "jump to the end")

	var transitionErr *TransitionInvalideError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, EnAttente, transitionErr.EtatActuel)
	assert.Equal(t, SagaTerminee, transitionErr.NouvelEtat)

	assert.Equal(t, EnAttente, saga.EtatActuel)
	assert.Empty(t, saga.Evenements)
	assert.Empty(t, saga.TentativesParEtape)
}

func TestHappyPathWalk(t *testing.T) {
	saga := newTestSaga(t)

	steps := []struct {
		etat EtatSaga
		evt  TypeEvenement
	}{
		{VerificationStock, SagaDemarre},
		{StockVerifie, StockVerifieSucces},
		{ReservationStock, StockVerifieSucces},
		{StockReserve, StockReserveSucces},
		{CreationCommande, StockReserveSucces},
		{CommandeCreee, CommandeCreeeSucces},
		{SagaTerminee, SagaTermineeSucces},
	}
	for _, step := range steps {
		require.NoError(t, saga.Transitionner(step.etat, step.evt, nil, ""))
	}

	assert.True(t, saga.EstTerminee())
	assert.False(t, saga.EstEnEchec())
	assert.False(t, saga.NecessiteCompensation())
	assert.Len(t, saga.Evenements, len(steps))
}

func TestNecessiteCompensation(t *testing.T) {
	t.Run("insufficient stock never compensates", func(t *testing.T) {
		saga := newTestSaga(t)
		require.NoError(t, saga.Transitionner(VerificationStock, SagaDemarre, nil, ""))
		require.NoError(t, saga.Transitionner(EchecStockInsuffisant, StockVerifieEchec, nil, ""))

		assert.True(t, saga.EstEnEchec())
		assert.False(t, saga.NecessiteCompensation())
	})

	t.Run("order failure with reservations compensates", func(t *testing.T) {
		saga := newTestSaga(t)
		require.NoError(t, saga.Transitionner(VerificationStock, SagaDemarre, nil, ""))
		require.NoError(t, saga.Transitionner(StockVerifie, StockVerifieSucces, nil, ""))
		require.NoError(t, saga.Transitionner(ReservationStock, StockVerifieSucces, nil, ""))
		saga.AjouterReservationStock("prod-1", "reservation_x_prod-1")
		require.NoError(t, saga.Transitionner(StockReserve, StockReserveSucces, nil, ""))
		require.NoError(t, saga.Transitionner(CreationCommande, StockReserveSucces, nil, ""))
		require.NoError(t, saga.Transitionner(EchecCreationCommande, CommandeCreeeEchec, nil, ""))

		assert.True(t, saga.NecessiteCompensation())

		// Once every reservation is released, compensation is done.
		saga.RetirerReservationStock("prod-1")
		assert.False(t, saga.NecessiteCompensation())
	})

	t.Run("failure without reservations does not compensate", func(t *testing.T) {
		saga := newTestSaga(t)
		require.NoError(t, saga.Transitionner(VerificationStock, SagaDemarre, nil, ""))
		require.NoError(t, saga.Transitionner(StockVerifie, StockVerifieSucces, nil, ""))
		require.NoError(t, saga.Transitionner(ReservationStock, StockVerifieSucces, nil, ""))
		require.NoError(t, saga.Transitionner(EchecReservationStock, StockReserveEchec, nil, ""))

		assert.False(t, saga.NecessiteCompensation())
	})

	t.Run("cancelled saga never compensates again", func(t *testing.T) {
		saga := newTestSaga(t)
		require.NoError(t, saga.Transitionner(VerificationStock, SagaDemarre, nil, ""))
		require.NoError(t, saga.Transitionner(EchecStockInsuffisant, StockVerifieEchec, nil, ""))
		require.NoError(t, saga.Transitionner(SagaAnnulee, CompensationTerminee, nil, ""))
		saga.AjouterReservationStock("prod-1", "r1")

		assert.False(t, saga.NecessiteCompensation())
	})
}

func TestMontants(t *testing.T) {
	saga := newTestSaga(t)

	assert.InDelta(t, 25.0, saga.MontantTotal(), 1e-9)
	assert.Equal(t, 3, saga.QuantiteTotaleArticles())
}

func TestResume(t *testing.T) {
	saga := newTestSaga(t)
	require.NoError(t, saga.Transitionner(VerificationStock, SagaDemarre, nil, ""))
	saga.AjouterReservationStock("prod-1", "r1")
	saga.CommandeFinaleID = models.GenerateUUID()

	resume := saga.Resume()

	assert.Equal(t, saga.ID, resume.SagaID)
	assert.Equal(t, VerificationStock, resume.EtatActuel)
	assert.Equal(t, 2, resume.NombreLignes)
	assert.Equal(t, 1, resume.NombreEvenements)
	assert.Equal(t, 1, resume.ReservationsActives)
	assert.Equal(t, saga.CommandeFinaleID, resume.CommandeFinaleID)
	assert.False(t, resume.EstTerminee)
}
