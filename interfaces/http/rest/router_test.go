package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orgconfig/application/ports"
	"orgconfig/application/services"
	"orgconfig/domain/config"
	"orgconfig/domain/core/validators"
	"orgconfig/infrastructure/persistence/memory"
	"orgconfig/interfaces/http/rest/handlers"
	"orgconfig/interfaces/http/rest/middleware"
	"orgconfig/pkg/auth"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret"

type testServer struct {
	handler http.Handler
	store   *memory.Store
	orgs    *services.OrganizationService
	jwt     *auth.JWTValidator
}

type serverOptions struct {
	production bool
	metrics    *observability.Collector
	store      ports.ConfigStore
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	logger := zap.NewNop()
	mem := memory.NewStore()
	var store ports.ConfigStore = mem
	if opts.store != nil {
		store = opts.store
	}

	configs := services.NewConfigurationService(store, validators.NewConfigValidator(), nil, opts.metrics, logger)
	orgs := services.NewOrganizationService(store, configs, validators.NewOrganizationValidator(), nil, opts.metrics, logger, services.OrganizationOptions{})
	errorHandler := apperrors.NewErrorHandler(logger, !opts.production)
	validator, err := auth.NewJWTValidator(testSecret, "orgconfig")
	require.NoError(t, err)

	router := NewRouter(
		handlers.NewOrganizationHandler(orgs, errorHandler, logger),
		handlers.NewConfigHandler(configs, orgs, errorHandler, logger),
		handlers.NewHealthHandler(store, logger),
		middleware.NewAuthenticator(validator, opts.production, errorHandler, logger),
		errorHandler,
		opts.metrics,
		CORSOptions{Enabled: true, AllowedOrigins: []string{"*"}},
		logger,
	)
	return &testServer{handler: router.Setup(), store: mem, orgs: orgs, jwt: validator}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (s *testServer) seed(t *testing.T, id, name string) {
	t.Helper()
	_, err := s.orgs.CreateOrganization(context.Background(), id, name, "seed")
	require.NoError(t, err)
}

func (s *testServer) bearer(t *testing.T, email string, roles ...string) string {
	t.Helper()
	token, err := s.jwt.IssueToken("user-"+email, email, roles, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_GetConfig_Success(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Team One")

	// Act
	rec, body := srv.do(t, http.MethodGet, "/organizations/org1/config/ORGANIZATION_CONFIG", nil)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	cfg := body["config"].(map[string]interface{})
	assert.Equal(t, "org1", cfg["OrganizationId"])
	assert.Equal(t, "Team One", cfg["Name"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_GetConfig_InvalidType(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, body := srv.do(t, http.MethodGet, "/organizations/org1/config/NOPE", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "Invalid configuration type: NOPE", body["error"])
	assert.Equal(t, []interface{}{"ORGANIZATION_CONFIG", "CLIENT_CONFIG", "CLIENT_CONFIG_IOS", "CLIENT_CONFIG_ANDROID"}, body["validTypes"])
}

func TestRouter_GetConfig_NotFound(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, body := srv.do(t, http.MethodGet, "/organizations/ghost/config/CLIENT_CONFIG", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Configuration of type CLIENT_CONFIG not found for organization ghost", body["error"])
}

func TestRouter_UpdateConfig_EmptyStringKeepsStoredValue(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Old")

	// Act
	rec, body := srv.do(t, http.MethodPut, "/organizations/org1/config/ORGANIZATION_CONFIG",
		map[string]interface{}{"Name": "", "BrandColor": "#112233"}, middleware.DevUserHeader, "alice")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := body["config"].(map[string]interface{})
	assert.NotContains(t, cfg, "Name")
	assert.Equal(t, "#112233", cfg["BrandColor"])
	assert.Equal(t, "alice", cfg["__updatedBy"])

	stored, err := srv.store.Get(context.Background(), ports.Key{OrganizationID: "org1", ConfigType: config.TypeOrganization})
	require.NoError(t, err)
	assert.Equal(t, "Old", stored["Name"])
}

func TestRouter_UpdateConfig_ValidationError(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Team")

	rec, body := srv.do(t, http.MethodPut, "/organizations/org1/config/CLIENT_CONFIG",
		map[string]interface{}{"Braze": map[string]interface{}{"BaseUrl": "nope"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := body["details"].(map[string]interface{})
	assert.Equal(t, []interface{}{map[string]interface{}{"field": "Braze.BaseUrl", "message": "Invalid url"}}, details["validationErrors"])
}

func TestRouter_UpdateConfig_BodyErrors(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Team")

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"missing", nil, "Request body is required"},
		{"null", "null", "Request body is required"},
		{"array", "[1,2]", "Request body must be a JSON object"},
		{"malformed", "{", "Request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := srv.do(t, http.MethodPut, "/organizations/org1/config/CLIENT_CONFIG", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestRouter_UpdateConfig_MissingRecord(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, _ := srv.do(t, http.MethodPut, "/organizations/ghost/config/CLIENT_CONFIG", map[string]interface{}{"TermsUrl": "https://x.example.com"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, srv.store.Len())
}

func TestRouter_CreateOrganization(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{})

	// Act
	rec, body := srv.do(t, http.MethodPost, "/organizations", map[string]interface{}{"OrganizationId": "org1", "Name": "Team One"})

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]interface{}{"OrganizationId": "org1", "Name": "Team One"}, body["organization"])
	assert.Equal(t, 4, srv.store.Len())

	rec, body = srv.do(t, http.MethodGet, "/organizations/org1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["missingConfigTypes"])
}

func TestRouter_CreateOrganization_Conflict(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Team One")

	rec, body := srv.do(t, http.MethodPost, "/organizations", map[string]interface{}{"OrganizationId": "org1", "Name": "Again"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_ENTITY", body["code"])
	assert.Equal(t, "Organization with ID org1 already exists", body["error"])
}

func TestRouter_CreateOrganization_Invalid(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, body := srv.do(t, http.MethodPost, "/organizations", map[string]interface{}{"OrganizationId": "has space", "Name": "x"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, 0, srv.store.Len())
}

func TestRouter_ListOrganizations(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "b", "Bravo")
	srv.seed(t, "a", "alpha")

	rec, body := srv.do(t, http.MethodGet, "/organizations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"OrganizationId": "a", "Name": "alpha"},
		map[string]interface{}{"OrganizationId": "b", "Name": "Bravo"},
	}, body["organizations"])

	rec, body = srv.do(t, http.MethodGet, "/organizations?name=BRAV", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["organizations"], 1)

	rec, _ = srv.do(t, http.MethodGet, "/organizations?name=", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetOrganization_ReportsMissingTypes(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	require.NoError(t, srv.store.Put(context.Background(), ports.Item{
		"OrganizationId":         "org1",
		"OrganizationConfigType": "ORGANIZATION_CONFIG",
		"Name":                   "Partial",
	}, ports.PutOptions{}))

	rec, body := srv.do(t, http.MethodGet, "/organizations/org1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"CLIENT_CONFIG", "CLIENT_CONFIG_IOS", "CLIENT_CONFIG_ANDROID"}, body["missingConfigTypes"])

	rec, _ = srv.do(t, http.MethodGet, "/organizations/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListConfigs(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.seed(t, "org1", "Team")

	rec, body := srv.do(t, http.MethodGet, "/organizations/org1/config", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["configs"], 4)

	rec, body = srv.do(t, http.MethodGet, "/organizations/ghost/config", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Organization with ID ghost not found", body["error"])
}

func TestRouter_CreateConfig(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, _ := srv.do(t, http.MethodPost, "/organizations/org1/config/CLIENT_CONFIG", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := srv.do(t, http.MethodPost, "/organizations/org1/config/ORGANIZATION_CONFIG", map[string]interface{}{"Name": "Repaired"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Repaired", body["config"].(map[string]interface{})["Name"])

	rec, body = srv.do(t, http.MethodPost, "/organizations/org1/config/CLIENT_CONFIG_IOS", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "CLIENT_CONFIG_IOS", body["config"].(map[string]interface{})["OrganizationConfigType"])
	assert.Equal(t, 2, srv.store.Len())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodDelete, "/organizations", "GET, POST"},
		{http.MethodPut, "/organizations/org1", "GET"},
		{http.MethodPost, "/organizations/org1/config", "GET"},
		{http.MethodDelete, "/organizations/org1/config/CLIENT_CONFIG", "GET, POST, PUT"},
		{http.MethodPost, "/health", "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, body := srv.do(t, tt.method, tt.path, nil)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
			assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, body := srv.do(t, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])
}

type unhealthyStore struct {
	*memory.Store
}

func (unhealthyStore) Ping(context.Context) error {
	return apperrors.NewDatabaseError("ping", errors.New("connection refused"))
}

func TestRouter_Health(t *testing.T) {
	healthy := newTestServer(t, serverOptions{})
	rec, body := healthy.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["components"].(map[string]interface{})["database"].(map[string]interface{})["status"])

	broken := newTestServer(t, serverOptions{store: unhealthyStore{memory.NewStore()}})
	rec, body = broken.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRouter_ProductionAuthentication(t *testing.T) {
	srv := newTestServer(t, serverOptions{production: true})
	srv.seed(t, "org1", "Team")
	payload := map[string]interface{}{"OrganizationId": "org2", "Name": "Two"}

	rec, body := srv.do(t, http.MethodGet, "/organizations", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	rec, _ = srv.do(t, http.MethodGet, "/organizations", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer := srv.bearer(t, "viewer@example.com", "viewer")
	rec, _ = srv.do(t, http.MethodGet, "/organizations", nil, "Authorization", viewer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = srv.do(t, http.MethodPost, "/organizations", payload, "Authorization", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []interface{}{"admin"}, body["details"].(map[string]interface{})["requiredRoles"])

	admin := srv.bearer(t, "admin@example.com", auth.RoleAdmin)
	rec, _ = srv.do(t, http.MethodPost, "/organizations", payload, "Authorization", admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := srv.store.Get(context.Background(), ports.Key{OrganizationID: "org2", ConfigType: config.TypeClient})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", stored["__updatedBy"])
}

func TestRouter_ProductionHealthIsPublic(t *testing.T) {
	srv := newTestServer(t, serverOptions{production: true})

	rec, _ := srv.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SwaggerDocument(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec, body := srv.do(t, http.MethodGet, "/swagger/doc.json", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Organization Configuration API", body["info"].(map[string]interface{})["title"])
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, serverOptions{metrics: observability.NewCollector("orgconfig_test")})
	srv.seed(t, "org1", "Team")
	srv.do(t, http.MethodGet, "/organizations/org1/config/CLIENT_CONFIG", nil)

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `orgconfig_test_http_requests_total{method="GET",route="/organizations/{organizationId}/config/{configType}",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "orgconfig_test_organizations_created_total 1")
}
