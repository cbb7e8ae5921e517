package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// HTTPInventoryClient implements domain.InventoryClient against the
// inventory service's DDD endpoints.
type HTTPInventoryClient struct {
	client *serviceClient
}

// NewHTTPInventoryClient creates an inventory client.
func NewHTTPInventoryClient(cfg ClientConfig, metrics domain.MetricsCollector) *HTTPInventoryClient {
	return &HTTPInventoryClient{client: newServiceClient("inventaire", cfg, metrics)}
}

type stockMutationRequest struct {
	ProduitID string `json:"produit_id"`
	Quantite  int    `json:"quantite"`
	MagasinID string `json:"magasin_id,omitempty"`
}

// StocksLocaux lists current stock levels for a store.
func (c *HTTPInventoryClient) StocksLocaux(ctx context.Context, magasinID models.ID) ([]domain.StockLocal, error) {
	path := fmt.Sprintf("/api/ddd/inventaire/stocks-locaux/%s/", magasinID)
	status, payload, err := c.client.do(ctx, http.MethodGet, path, "stocks-locaux", nil, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &domain.ServiceExterneError{
			Service: "inventaire",
			Action:  fmt.Sprintf("consultation stocks magasin %s", magasinID),
			Err:     errors.Errorf("unexpected status %d", status),
		}
	}

	var body struct {
		Stocks []domain.StockLocal `json:"stocks"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &domain.ServiceExterneError{Service: "inventaire", Action: "stocks-locaux", Err: err}
	}
	return body.Stocks, nil
}

// DiminuerStock decrements stock for one product. A 400 naming an
// insufficient stock maps to the business error; any other 400 is a
// reservation failure.
func (c *HTTPInventoryClient) DiminuerStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error {
	return c.mutateStock(ctx, "/api/ddd/inventaire/diminuer-stock/", "diminuer-stock",
		produitID, quantite, magasinID, idempotencyKey)
}

// AugmenterStock restores stock for one product (compensation path).
func (c *HTTPInventoryClient) AugmenterStock(ctx context.Context, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error {
	return c.mutateStock(ctx, "/api/ddd/inventaire/augmenter-stock/", "augmenter-stock",
		produitID, quantite, magasinID, idempotencyKey)
}

func (c *HTTPInventoryClient) mutateStock(ctx context.Context, path, endpoint, produitID string, quantite int, magasinID models.ID, idempotencyKey string) error {
	req := stockMutationRequest{
		ProduitID: produitID,
		Quantite:  quantite,
		MagasinID: magasinID.String(),
	}
	status, payload, err := c.client.do(ctx, http.MethodPost, path, endpoint, req, idempotencyKey)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusBadRequest:
		raison := decodeError(payload)
		if endpoint == "diminuer-stock" && strings.Contains(strings.ToLower(raison), "insuffisant") {
			return &domain.StockInsuffisantError{ProduitID: produitID, QuantiteDemandee: quantite}
		}
		return &domain.ReservationEchecError{ProduitID: produitID, Raison: raison}
	default:
		return &domain.ServiceExterneError{
			Service: "inventaire",
			Action:  fmt.Sprintf("%s produit %s", endpoint, produitID),
			Err:     errors.Errorf("unexpected status %d", status),
		}
	}
}
