package domain

import (
	"context"
	"time"

	"github.com/magasin-labs/checkout-system/shared/models"
)

// SagaRepository persists the aggregate. The orchestrator saves after
// every transition so a crash never loses a committed step.
type SagaRepository interface {
	Save(ctx context.Context, saga *SagaCommande) error
	FindByID(ctx context.Context, id models.ID) (*SagaCommande, error)
}

// StockLocal is one product's stock level in a store.
type StockLocal struct {
	ProduitID  string `json:"produit_id"`
	Quantite   int    `json:"quantite"`
	NomProduit string `json:"nom_produit"`
}

// Produit is the catalog view of a product.
type Produit struct {
	ID          string  `json:"id"`
	Nom         string  `json:"nom"`
	Prix        float64 `json:"prix"`
	Description string  `json:"description"`
	Categorie   string  `json:"categorie"`
}

// InventoryClient talks to the inventory service. Calls are plain
// request/response; retry policy belongs to the caller. The idempotency
// key makes a repeated decrement or increment safe server-side.
type InventoryClient interface {
	StocksLocaux(ctx context.Context, magasinID models.ID) ([]StockLocal, error)
	DiminuerStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error
	AugmenterStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error
}

// CatalogClient fetches product details for order enrichment.
type CatalogClient interface {
	Produit(ctx context.Context, produitID string) (*Produit, error)
}

// OrdersClient creates the final downstream order.
type OrdersClient interface {
	EnregistrerVente(ctx context.Context, magasinID, clientID models.ID, produitID string, quantite int) (string, error)
}

// MetricsCollector records step outcomes, durations and compensation
// counts. Implementations have process lifetime; the exposition format
// lives at the boundary, not here.
type MetricsCollector interface {
	RecordSagaStarted(saga *SagaCommande)
	RecordSagaStep(saga *SagaCommande, etape, statut string)
	RecordSagaCompleted(saga *SagaCommande, duree time.Duration)
	RecordSagaFailed(saga *SagaCommande, typeEchec, etapeEchec string, duree time.Duration)
	RecordCompensation(saga *SagaCommande, typeCompensation string)
	RecordExternalServiceCall(service, endpoint string, statusCode int, duree time.Duration)
}
