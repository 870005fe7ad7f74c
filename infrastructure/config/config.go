// Package config loads the process configuration once at startup. The result is
// passed by pointer to whatever needs it and is never modified afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion        string `yaml:"awsRegion"`
	TableName        string `yaml:"tableName"`
	DynamoDBEndpoint string `yaml:"dynamodbEndpoint"`
	SSOProviderIndex string `yaml:"ssoProviderIndex"`
	StoreDriver      string `yaml:"storeDriver"`
	EventBusName     string `yaml:"eventBusName"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Authentication
	JWTSecret string `yaml:"jwtSecret"`
	JWTIssuer string `yaml:"jwtIssuer"`

	// Observability
	EnableMetrics bool   `yaml:"enableMetrics"`
	EnableTracing bool   `yaml:"enableTracing"`
	OTLPEndpoint  string `yaml:"otlpEndpoint"`

	// CORS
	EnableCORS         bool     `yaml:"enableCors"`
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`

	// Feature flags
	GuardedOrganizationCreate bool `yaml:"guardedOrganizationCreate"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		AWSRegion:          "us-east-1",
		SSOProviderIndex:   "ExternalSsoProviderIdIndex",
		StoreDriver:        StoreDriverDynamoDB,
		LogLevel:           "info",
		JWTIssuer:          "orgconfig",
		EnableMetrics:      true,
		OTLPEndpoint:       "localhost:4317",
		EnableCORS:         true,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and the environment, in increasing precedence, then
// validates it.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.TableName = getEnv("TABLE_NAME", cfg.TableName)
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", cfg.DynamoDBEndpoint)
	cfg.SSOProviderIndex = getEnv("SSO_PROVIDER_INDEX", cfg.SSOProviderIndex)
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.EventBusName = getEnv("EVENT_BUS_NAME", cfg.EventBusName)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.GuardedOrganizationCreate = getEnvBool("GUARDED_ORGANIZATION_CREATE", cfg.GuardedOrganizationCreate)

	if cfg.IsProduction() {
		// Local endpoints are a development convenience only.
		cfg.DynamoDBEndpoint = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	switch c.StoreDriver {
	case StoreDriverDynamoDB, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (expected %s or %s)", c.StoreDriver, StoreDriverDynamoDB, StoreDriverMemory)
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.StoreDriver == StoreDriverMemory {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return value == "yes"
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blank entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
