package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// HTTPOrdersClient implements domain.OrdersClient.
type HTTPOrdersClient struct {
	client *serviceClient
}

// NewHTTPOrdersClient creates an orders client.
func NewHTTPOrdersClient(cfg ClientConfig, metrics domain.MetricsCollector) *HTTPOrdersClient {
	return &HTTPOrdersClient{client: newServiceClient("commandes", cfg, metrics)}
}

type enregistrerVenteRequest struct {
	MagasinID string `json:"magasin_id"`
	ClientID  string `json:"client_id"`
	ProduitID string `json:"produit_id"`
	Quantite  int    `json:"quantite"`
}

// EnregistrerVente registers the sale and returns the created order id.
// Any status other than 201 is an order-creation failure requiring full
// compensation upstream.
func (c *HTTPOrdersClient) EnregistrerVente(ctx context.Context, magasinID, clientID models.ID, produitID string, quantite int) (string, error) {
	req := enregistrerVenteRequest{
		MagasinID: magasinID.String(),
		ClientID:  clientID.String(),
		ProduitID: produitID,
		Quantite:  quantite,
	}
	status, payload, err := c.client.do(ctx, http.MethodPost, "/api/v1/ventes-ddd/enregistrer/", "enregistrer", req, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", &domain.CreationCommandeEchecError{
			Raison: fmt.Sprintf("erreur %d: %s", status, decodeError(payload)),
		}
	}

	var body struct {
		Vente struct {
			ID string `json:"id"`
		} `json:"vente"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Vente.ID == "" {
		return "", &domain.CreationCommandeEchecError{Raison: "reponse vente invalide"}
	}
	return body.Vente.ID, nil
}
