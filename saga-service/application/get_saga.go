package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// GetSaga loads a saga with its full event history.
type GetSaga struct {
	sagas domain.SagaRepository
}

// NewGetSaga creates the query use case.
func NewGetSaga(sagas domain.SagaRepository) *GetSaga {
	return &GetSaga{sagas: sagas}
}

// Execute returns the aggregate or ErrSagaIntrouvable.
func (uc *GetSaga) Execute(ctx context.Context, sagaID string) (*domain.SagaCommande, error) {
	id, err := models.NewID(sagaID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saga id")
	}

	saga, err := uc.sagas.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga")
	}
	if saga == nil {
		return nil, domain.ErrSagaIntrouvable
	}
	return saga, nil
}
