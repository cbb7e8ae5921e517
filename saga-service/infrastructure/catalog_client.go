package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
)

// HTTPCatalogClient implements domain.CatalogClient.
type HTTPCatalogClient struct {
	client *serviceClient
}

// NewHTTPCatalogClient creates a catalog client.
func NewHTTPCatalogClient(cfg ClientConfig, metrics domain.MetricsCollector) *HTTPCatalogClient {
	return &HTTPCatalogClient{client: newServiceClient("catalogue", cfg, metrics)}
}

// Produit fetches one product. Missing products surface as a service
// failure: the saga treats an unknown product like an unavailable
// collaborator, not as a business outcome.
func (c *HTTPCatalogClient) Produit(ctx context.Context, produitID string) (*domain.Produit, error) {
	path := fmt.Sprintf("/api/ddd/catalogue/produits/%s/", produitID)
	status, payload, err := c.client.do(ctx, http.MethodGet, path, "produits", nil, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &domain.ServiceExterneError{
			Service: "catalogue",
			Action:  fmt.Sprintf("recuperation produit %s", produitID),
			Err:     errors.Errorf("unexpected status %d", status),
		}
	}

	var produit domain.Produit
	if err := json.Unmarshal(payload, &produit); err != nil {
		return nil, &domain.ServiceExterneError{Service: "catalogue", Action: "produits", Err: err}
	}
	return &produit, nil
}
