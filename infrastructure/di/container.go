package di

import (
	"net/http"

	"orgconfig/application/ports"
	"orgconfig/application/services"
	"orgconfig/infrastructure/config"
	"orgconfig/pkg/observability"

	"go.uber.org/zap"
)

// HTTPHandler is the fully assembled API handler.
type HTTPHandler http.Handler

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Store         ports.ConfigStore
	Configs       *services.ConfigurationService
	Organizations *services.OrganizationService
	Metrics       *observability.Collector
	Handler       HTTPHandler
}
