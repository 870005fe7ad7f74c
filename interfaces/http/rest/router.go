// Package rest exposes the organization configuration API over HTTP.
package rest

import (
	"net/http"
	"sort"
	"strings"

	"orgconfig/interfaces/http/rest/handlers"
	"orgconfig/interfaces/http/rest/middleware"
	"orgconfig/pkg/auth"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	// Registers the OpenAPI document served at /swagger/doc.json.
	_ "orgconfig/docs/swagger"
)

// CORSOptions controls cross-origin access for the admin panel.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	organizations *handlers.OrganizationHandler
	configs       *handlers.ConfigHandler
	health        *handlers.HealthHandler
	authenticator *middleware.Authenticator
	errors        *apperrors.ErrorHandler
	metrics       *observability.Collector
	cors          CORSOptions
	logger        *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil, which disables
// request metrics and the /metrics endpoint.
func NewRouter(
	organizations *handlers.OrganizationHandler,
	configs *handlers.ConfigHandler,
	health *handlers.HealthHandler,
	authenticator *middleware.Authenticator,
	errorHandler *apperrors.ErrorHandler,
	metrics *observability.Collector,
	corsOptions CORSOptions,
	logger *zap.Logger,
) *Router {
	return &Router{
		organizations: organizations,
		configs:       configs,
		health:        health,
		authenticator: authenticator,
		errors:        errorHandler,
		metrics:       metrics,
		cors:          corsOptions,
		logger:        logger,
	}
}

// endpoint binds one method of a route to its handler.
type endpoint struct {
	method  string
	handler http.Handler
}

func get(h http.HandlerFunc) endpoint { return endpoint{http.MethodGet, h} }
func post(h http.Handler) endpoint   { return endpoint{http.MethodPost, h} }
func put(h http.Handler) endpoint    { return endpoint{http.MethodPut, h} }

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestContext)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.cors.Enabled {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cors.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.DevUserHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, string(apperrors.ErrorTypeNotFound), "Route not found")
	})

	rt.route(router, "/health", get(rt.health.Health))
	rt.route(router, "/swagger/doc.json", get(serveSwagger))
	if rt.metrics != nil {
		rt.route(router, "/metrics", get(rt.metrics.Handler().ServeHTTP))
	}

	router.Group(func(r chi.Router) {
		r.Use(rt.authenticator.Authenticate)
		admin := rt.authenticator.RequireRole(auth.RoleAdmin)

		rt.route(r, "/organizations",
			get(rt.organizations.ListOrganizations),
			post(admin(http.HandlerFunc(rt.organizations.CreateOrganization))),
		)
		rt.route(r, "/organizations/{organizationId}",
			get(rt.organizations.GetOrganization),
		)
		rt.route(r, "/organizations/{organizationId}/config",
			get(rt.configs.ListConfigs),
		)
		rt.route(r, "/organizations/{organizationId}/config/{configType}",
			get(rt.configs.GetConfig),
			put(admin(http.HandlerFunc(rt.configs.UpdateConfig))),
			post(admin(http.HandlerFunc(rt.configs.CreateConfig))),
		)
	})

	return router
}

// route registers the endpoints of one path and answers every other method
// with 405 and an Allow header listing the registered ones.
func (rt *Router) route(r chi.Router, pattern string, endpoints ...endpoint) {
	methods := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		methods = append(methods, e.method)
	}
	sort.Strings(methods)
	allow := strings.Join(methods, ", ")

	r.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Allow", allow)
		rt.errors.HandleStatus(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Method "+req.Method+" not allowed")
	})
	for _, e := range endpoints {
		r.Method(e.method, pattern, e.handler)
	}
}

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
