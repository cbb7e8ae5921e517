package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/magasin-labs/checkout-system/checkout-service/handlers"
	"github.com/magasin-labs/checkout-system/checkout-service/infrastructure"
	"github.com/magasin-labs/checkout-system/checkout-service/workers"
	sagainfra "github.com/magasin-labs/checkout-system/saga-service/infrastructure"
	"github.com/magasin-labs/checkout-system/shared/eventbus"
	"github.com/magasin-labs/checkout-system/shared/models"
	"github.com/magasin-labs/checkout-system/shared/telemetry"
)

type Dependencies struct {
	// Redis
	Redis *redis.Client

	// Event bus
	Bus *eventbus.RedisEventBus

	// Read model
	ReadModel *infrastructure.RedisReadModel

	// Metrics
	Metrics  *sagainfra.PrometheusMetrics
	Registry *prometheus.Registry

	// Clients
	StockClient *sagainfra.HTTPInventoryClient
	SalesClient *sagainfra.HTTPOrdersClient

	// Workers
	ReservationWorker  *workers.ReservationWorker
	OrderWorker        *workers.OrderWorker
	CompensationWorker *workers.CompensationWorker
	AuditWorker        *workers.AuditWorker
	ProjectionWorker   *workers.ProjectionWorker

	// HTTP Handlers
	CheckoutHandlers *handlers.CheckoutHandlers

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()

	auditFile *os.File
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	if config.Telemetry.Enabled {
		telConfig := telemetry.CheckoutServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			log.Printf("Failed to initialize telemetry: %v", err)
			// Continue without telemetry rather than failing
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize redis
	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	deps.Redis = client

	// Initialize event bus and read model
	deps.Bus = eventbus.New(client, config.Checkout.StreamMaxLen)
	deps.ReadModel = infrastructure.NewRedisReadModel(client)

	// Initialize metrics
	deps.Registry = prometheus.NewRegistry()
	deps.Metrics = sagainfra.NewPrometheusMetrics(deps.Registry)

	// Initialize collaborator clients
	timeout := config.ServiceTimeout()
	deps.StockClient = sagainfra.NewHTTPInventoryClient(sagainfra.ClientConfig{
		BaseURL: config.Services.InventoryURL,
		APIKey:  config.Services.APIKey,
		Timeout: timeout,
	}, deps.Metrics)
	deps.SalesClient = sagainfra.NewHTTPOrdersClient(sagainfra.ClientConfig{
		BaseURL: config.Services.OrdersURL,
		APIKey:  config.Services.APIKey,
		Timeout: timeout,
	}, deps.Metrics)

	// Initialize audit sink
	auditFile, err := os.OpenFile(config.Checkout.AuditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	deps.auditFile = auditFile

	// Initialize workers
	magasinID := models.ID(config.Checkout.MagasinID)
	consumer := consumerName(config.ServiceName)
	deps.ReservationWorker = workers.NewReservationWorker(deps.Bus, deps.StockClient, magasinID, consumer)
	deps.OrderWorker = workers.NewOrderWorker(deps.Bus, deps.SalesClient, magasinID, consumer)
	deps.CompensationWorker = workers.NewCompensationWorker(deps.Bus, deps.StockClient, magasinID, consumer)
	deps.AuditWorker = workers.NewAuditWorker(deps.Bus, auditFile, consumer)
	deps.ProjectionWorker = workers.NewProjectionWorker(deps.Bus, deps.ReadModel, consumer)

	// Initialize handlers
	deps.CheckoutHandlers = handlers.NewCheckoutHandlers(deps.Bus, deps.ReadModel)

	return deps, nil
}

func consumerName(serviceName string) string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "local"
	}
	return fmt.Sprintf("%s-%s-%d", serviceName, hostname, os.Getpid())
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if d.auditFile != nil {
		if err := d.auditFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit log: %w", err))
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
