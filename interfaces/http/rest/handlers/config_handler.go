package handlers

import (
	"fmt"
	"net/http"

	"orgconfig/application/services"
	"orgconfig/domain/config"
	"orgconfig/pkg/common"
	apperrors "orgconfig/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConfigHandler handles configuration record HTTP requests
type ConfigHandler struct {
	configs *services.ConfigurationService
	orgs    *services.OrganizationService
	errors  *apperrors.ErrorHandler
	logger  *zap.Logger
}

// NewConfigHandler creates a new configuration handler
func NewConfigHandler(
	configs *services.ConfigurationService,
	orgs *services.OrganizationService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		orgs:    orgs,
		errors:  errorHandler,
		logger:  logger,
	}
}

// ListConfigs handles GET /organizations/{organizationId}/config
//
// @Summary List an organization's configuration records
// @Tags configuration
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Success 200 {object} swagger.ConfigListResponse
// @Failure 404 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationId}/config [get]
func (h *ConfigHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "organizationId")

	if err := h.requireOrganization(r, id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	configs, err := h.configs.GetConfigurationsByOrganizationID(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, "configs", configs)
}

// GetConfig handles GET /organizations/{organizationId}/config/{configType}
//
// @Summary Get one configuration record
// @Tags configuration
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Param configType path string true "Configuration type" Enums(ORGANIZATION_CONFIG, CLIENT_CONFIG, CLIENT_CONFIG_IOS, CLIENT_CONFIG_ANDROID)
// @Success 200 {object} swagger.ConfigResponse
// @Failure 400 {object} swagger.ErrorResponse
// @Failure 404 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationId}/config/{configType} [get]
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id, configType, err := pathKey(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	item, err := h.configs.GetConfigurationByType(r.Context(), id, configType)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, "config", item)
}

// UpdateConfig handles PUT /organizations/{organizationId}/config/{configType}
//
// @Summary Update a configuration record
// @Description Applies the submitted attributes to an existing record. Empty strings and nulls are dropped before writing, so they leave stored values unchanged.
// @Tags configuration
// @Accept json
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Param configType path string true "Configuration type" Enums(ORGANIZATION_CONFIG, CLIENT_CONFIG, CLIENT_CONFIG_IOS, CLIENT_CONFIG_ANDROID)
// @Param patch body object true "Attributes to set"
// @Success 200 {object} swagger.ConfigResponse
// @Failure 400 {object} swagger.ErrorResponse
// @Failure 403 {object} swagger.ErrorResponse
// @Failure 404 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationId}/config/{configType} [put]
func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, configType, err := pathKey(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	patch, err := decodeObject(w, r, true)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	// Updates never create records.
	if _, err := h.configs.GetConfigurationByType(r.Context(), id, configType); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	updated, err := h.configs.UpdateConfiguration(r.Context(), id, configType, patch, actor(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, "config", updated)
}

// CreateConfig handles POST /organizations/{organizationId}/config/{configType}
//
// @Summary Create a configuration record
// @Description Writes the type's default record with the body laid over it, replacing any existing record. Used to repair partially provisioned organizations.
// @Tags configuration
// @Accept json
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Param configType path string true "Configuration type" Enums(ORGANIZATION_CONFIG, CLIENT_CONFIG, CLIENT_CONFIG_IOS, CLIENT_CONFIG_ANDROID)
// @Param data body object false "Attributes laid over the defaults"
// @Success 201 {object} swagger.ConfigResponse
// @Failure 400 {object} swagger.ErrorResponse
// @Failure 403 {object} swagger.ErrorResponse
// @Failure 404 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationId}/config/{configType} [post]
func (h *ConfigHandler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	id, configType, err := pathKey(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	extra, err := decodeObject(w, r, false)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	// The other three types hang off an existing organization.
	if configType != config.TypeOrganization {
		if err := h.requireOrganization(r, id); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	}
	created, err := h.configs.CreateConfigurationRecord(r.Context(), id, configType, extra, actor(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusCreated, "config", created)
}

func (h *ConfigHandler) requireOrganization(r *http.Request, id string) error {
	exists, err := h.orgs.OrganizationExists(r.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError(fmt.Sprintf("Organization with ID %s not found", id)).
			WithDetails(map[string]interface{}{"organizationId": id})
	}
	return nil
}

func (h *ConfigHandler) respond(w http.ResponseWriter, status int, key string, data interface{}) {
	if err := common.RespondSuccess(w, status, key, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func pathKey(r *http.Request) (string, config.ConfigType, error) {
	id := chi.URLParam(r, "organizationId")
	raw := chi.URLParam(r, "configType")
	configType, ok := config.ParseConfigType(raw)
	if !ok {
		return "", "", services.InvalidConfigTypeError(raw)
	}
	return id, configType, nil
}
