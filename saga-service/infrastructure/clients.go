package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
)

const defaultClientTimeout = 30 * time.Second

// ClientConfig configures one external service client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// serviceClient is the shared HTTP plumbing of the three external service
// clients. It does no retries: retry policy belongs to the saga layer.
type serviceClient struct {
	service string
	baseURL string
	apiKey  string
	http    *http.Client
	metrics domain.MetricsCollector
}

func newServiceClient(service string, cfg ClientConfig, metrics domain.MetricsCollector) *serviceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &serviceClient{
		service: service,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		metrics: metrics,
	}
}

// do performs one JSON request and returns the status code and body. A
// transport-level failure returns a ServiceExterneError; status mapping
// is left to the caller. Every call records the external-call metrics.
func (c *serviceClient) do(ctx context.Context, method, path, endpoint string, body any, idempotencyKey string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordExternalServiceCall(c.service, endpoint, 0, time.Since(start))
		return 0, nil, &domain.ServiceExterneError{Service: c.service, Action: endpoint, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.metrics.RecordExternalServiceCall(c.service, endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return resp.StatusCode, nil, &domain.ServiceExterneError{Service: c.service, Action: endpoint, Err: err}
	}
	return resp.StatusCode, payload, nil
}

func decodeError(payload []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Error == "" {
		return "erreur inconnue"
	}
	return body.Error
}
