//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"orgconfig/application/services"
	"orgconfig/domain/core/validators"
	"orgconfig/infrastructure/config"
	"orgconfig/interfaces/http/rest"
	"orgconfig/interfaces/http/rest/handlers"

	"github.com/google/wire"
)

// InfrastructureSet provides clients, adapters and observability
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideConfigStore,
	ProvideEventPublisher,
)

// ApplicationSet provides validators and services
var ApplicationSet = wire.NewSet(
	validators.NewConfigValidator,
	validators.NewOrganizationValidator,
	services.NewConfigurationService,
	ProvideOrganizationOptions,
	services.NewOrganizationService,
)

// HTTPSet provides the REST surface
var HTTPSet = wire.NewSet(
	ProvideErrorHandler,
	ProvideJWTValidator,
	ProvideAuthenticator,
	ProvideCORSOptions,
	handlers.NewOrganizationHandler,
	handlers.NewConfigHandler,
	handlers.NewHealthHandler,
	rest.NewRouter,
	ProvideHTTPHandler,
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(
		InfrastructureSet,
		ApplicationSet,
		HTTPSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
