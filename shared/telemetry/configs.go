package telemetry

// Predefined service configurations
var (
	// SagaServiceConfig is the telemetry configuration for the orchestrated saga service
	SagaServiceConfig = Config{
		ServiceName:    "saga-service",
		ServiceVersion: "1.0.0",
	}

	// CheckoutServiceConfig is the telemetry configuration for the choreographed checkout service
	CheckoutServiceConfig = Config{
		ServiceName:    "checkout-service",
		ServiceVersion: "1.0.0",
	}

	// DefaultConfig is the default telemetry configuration
	DefaultConfig = Config{
		ServiceName:    "unknown-service",
		ServiceVersion: "1.0.0",
	}
)

// NewConfigForService creates a new telemetry config for a custom service
func NewConfigForService(serviceName, version, otlpEndpoint string) Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		OTLPEndpoint:   otlpEndpoint,
	}
}

// WithOTLPEndpoint sets the OTLP endpoint for a config
func (c Config) WithOTLPEndpoint(endpoint string) Config {
	c.OTLPEndpoint = endpoint
	return c
}

// WithVersion sets the service version for a config
func (c Config) WithVersion(version string) Config {
	c.ServiceVersion = version
	return c
}
