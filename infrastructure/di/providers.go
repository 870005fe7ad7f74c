// Package di assembles the application's object graph.
package di

import (
	"context"
	"fmt"

	"orgconfig/application/ports"
	"orgconfig/application/services"
	"orgconfig/infrastructure/config"
	"orgconfig/infrastructure/messaging/eventbridge"
	"orgconfig/infrastructure/persistence/dynamodb"
	"orgconfig/infrastructure/persistence/memory"
	"orgconfig/interfaces/http/rest"
	"orgconfig/interfaces/http/rest/middleware"
	"orgconfig/pkg/auth"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const serviceName = "orgconfig"

// ProvideLogger creates the process logger. LOG_LEVEL overrides the
// environment's default level.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build(zap.Fields(zap.String("service", serviceName), zap.String("environment", cfg.Environment)))
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at the local
// endpoint when one is configured.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics returns the collector, or nil when metrics are disabled.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideTracerProvider starts the OTLP exporter when tracing is enabled. The
// cleanup flushes pending spans.
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return observability.NoopTracerProvider(), func() {}, nil
	}
	tp, err := observability.InitTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideConfigStore selects the persistence adapter named by STORE_DRIVER.
func ProvideConfigStore(
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Collector,
	tp *observability.TracerProvider,
	logger *zap.Logger,
) ports.ConfigStore {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store; data is lost on exit")
		return memory.NewStore()
	}
	return dynamodb.NewStore(client, dynamodb.Options{
		TableName:        cfg.TableName,
		SSOProviderIndex: cfg.SSOProviderIndex,
	}, metrics, tp.Tracer(), logger)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NoopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

func ProvideOrganizationOptions(cfg *config.Config) services.OrganizationOptions {
	return services.OrganizationOptions{GuardedCreate: cfg.GuardedOrganizationCreate}
}

// ProvideErrorHandler includes internal detail in 5xx responses outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideJWTValidator returns nil when no secret is configured, which
// config.Validate only allows outside production.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

func ProvideAuthenticator(
	validator *auth.JWTValidator,
	cfg *config.Config,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *middleware.Authenticator {
	return middleware.NewAuthenticator(validator, cfg.IsProduction(), errorHandler, logger)
}

func ProvideCORSOptions(cfg *config.Config) rest.CORSOptions {
	return rest.CORSOptions{Enabled: cfg.EnableCORS, AllowedOrigins: cfg.CORSAllowedOrigins}
}

// ProvideHTTPHandler builds the router's handler
func ProvideHTTPHandler(router *rest.Router) HTTPHandler {
	return router.Setup()
}
