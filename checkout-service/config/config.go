package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string    `mapstructure:"service_name"`
	Env         string    `mapstructure:"env"`
	Port        string    `mapstructure:"port"`
	Redis       Redis     `mapstructure:"redis"`
	Services    Services  `mapstructure:"services"`
	Checkout    Checkout  `mapstructure:"checkout"`
	Telemetry   Telemetry `mapstructure:"telemetry"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Services struct {
	InventoryURL   string `mapstructure:"inventory_url"`
	OrdersURL      string `mapstructure:"orders_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Checkout holds choreography settings.
type Checkout struct {
	MagasinID    string `mapstructure:"magasin_id"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
	AuditLogPath string `mapstructure:"audit_log_path"`
}

type Telemetry struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	configDir := filepath.Join(filepath.Dir(filename))
	viper.SetConfigName(getConfigName())
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	// Allow environment variables to override config
	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHECKOUT")

	setDefaultsFromEnv()

	err := viper.ReadInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func getConfigName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaultsFromEnv() {
	// Service defaults
	viper.SetDefault("service_name", "checkout-service")
	viper.SetDefault("env", getEnv("ENV", "local"))
	viper.SetDefault("port", getEnv("PORT", "8090"))

	// Redis defaults
	viper.SetDefault("redis.addr", getEnv("REDIS_ADDR", "localhost:6379"))
	viper.SetDefault("redis.password", getEnv("REDIS_PASSWORD", ""))
	viper.SetDefault("redis.db", 0)

	// Collaborator service defaults
	viper.SetDefault("services.inventory_url", getEnv("INVENTORY_SERVICE_URL", "http://localhost:8001"))
	viper.SetDefault("services.orders_url", getEnv("ORDERS_SERVICE_URL", "http://localhost:8003"))
	viper.SetDefault("services.api_key", getEnv("SERVICES_API_KEY", ""))
	viper.SetDefault("services.timeout_seconds", 30)

	// Choreography defaults
	viper.SetDefault("checkout.magasin_id", getEnv("MAGASIN_ID", ""))
	viper.SetDefault("checkout.stream_max_len", 10000)
	viper.SetDefault("checkout.audit_log_path", getEnv("AUDIT_LOG_PATH", "checkout-audit.log"))

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.otlp_endpoint", getEnv("OTLP_ENDPOINT", "localhost:4318"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ServiceTimeout returns the shared HTTP client timeout.
func (c *Config) ServiceTimeout() time.Duration {
	if c.Services.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Services.TimeoutSeconds) * time.Second
}
