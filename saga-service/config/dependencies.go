package config

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magasin-labs/checkout-system/saga-service/application"
	"github.com/magasin-labs/checkout-system/saga-service/handlers"
	"github.com/magasin-labs/checkout-system/saga-service/infrastructure"
	"github.com/magasin-labs/checkout-system/shared/telemetry"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	SagaRepository *infrastructure.PostgresSagaRepository

	// Metrics
	Metrics  *infrastructure.PrometheusMetrics
	Registry *prometheus.Registry

	// Clients
	InventoryClient *infrastructure.HTTPInventoryClient
	CatalogClient   *infrastructure.HTTPCatalogClient
	OrdersClient    *infrastructure.HTTPOrdersClient

	// Use Cases
	Orchestrator *application.Orchestrator
	DemarrerSaga *application.DemarrerSaga
	GetSaga      *application.GetSaga

	// HTTP Handlers
	SagaHandlers *handlers.SagaHandlers

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	if config.Telemetry.Enabled {
		telConfig := telemetry.SagaServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			log.Printf("Failed to initialize telemetry: %v", err)
			// Continue without telemetry rather than failing
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	// Initialize metrics
	deps.Registry = prometheus.NewRegistry()
	deps.Metrics = infrastructure.NewPrometheusMetrics(deps.Registry)

	// Initialize repositories
	deps.SagaRepository = infrastructure.NewPostgresSagaRepository(db)

	// Initialize collaborator clients
	timeout := config.ServiceTimeout()
	deps.InventoryClient = infrastructure.NewHTTPInventoryClient(infrastructure.ClientConfig{
		BaseURL: config.Services.InventoryURL,
		APIKey:  config.Services.APIKey,
		Timeout: timeout,
	}, deps.Metrics)
	deps.CatalogClient = infrastructure.NewHTTPCatalogClient(infrastructure.ClientConfig{
		BaseURL: config.Services.CatalogURL,
		APIKey:  config.Services.APIKey,
		Timeout: timeout,
	}, deps.Metrics)
	deps.OrdersClient = infrastructure.NewHTTPOrdersClient(infrastructure.ClientConfig{
		BaseURL: config.Services.OrdersURL,
		APIKey:  config.Services.APIKey,
		Timeout: timeout,
	}, deps.Metrics)

	// Initialize use cases
	deps.Orchestrator = application.NewOrchestrator(
		deps.InventoryClient,
		deps.CatalogClient,
		deps.OrdersClient,
		deps.SagaRepository,
		deps.Metrics,
	)
	deps.DemarrerSaga = application.NewDemarrerSaga(deps.Orchestrator, deps.SagaRepository)
	deps.GetSaga = application.NewGetSaga(deps.SagaRepository)

	// Initialize handlers
	deps.SagaHandlers = handlers.NewSagaHandlers(deps.DemarrerSaga, deps.GetSaga)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
