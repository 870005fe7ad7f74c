package handlers

import (
	"net/http"

	"orgconfig/application/services"
	"orgconfig/pkg/common"
	apperrors "orgconfig/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrganizationHandler handles organization-level HTTP requests
type OrganizationHandler struct {
	orgs   *services.OrganizationService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgs *services.OrganizationService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgs:   orgs,
		errors: errorHandler,
		logger: logger,
	}
}

// ListOrganizations handles GET /organizations
//
// @Summary List organizations
// @Description Lists every organization sorted by name. With name, filters by a case-insensitive substring; with ssoProviderId, looks the organization up by its external SSO provider.
// @Tags organizations
// @Produce json
// @Param name query string false "Name search term"
// @Param ssoProviderId query string false "External SSO provider id"
// @Success 200 {object} swagger.OrganizationListResponse
// @Failure 400 {object} swagger.ErrorResponse
// @Failure 500 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		orgs []services.Organization
		err  error
	)
	switch {
	case query.Has("name"):
		orgs, err = h.orgs.GetOrganizationsByName(r.Context(), query.Get("name"))
	case query.Has("ssoProviderId"):
		orgs, err = h.orgs.GetOrganizationBySSOProvider(r.Context(), query.Get("ssoProviderId"))
	default:
		orgs, err = h.orgs.GetOrganizations(r.Context())
	}
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, "organizations", orgs)
}

// CreateOrganization handles POST /organizations
//
// @Summary Create an organization
// @Description Provisions the four default configuration records for a new organization.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body swagger.CreateOrganizationRequest true "Organization"
// @Success 201 {object} swagger.OrganizationResponse
// @Failure 400 {object} swagger.ErrorResponse
// @Failure 403 {object} swagger.ErrorResponse
// @Failure 409 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r, true)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id, _ := body["OrganizationId"].(string)
	name, _ := body["Name"].(string)

	org, err := h.orgs.CreateOrganization(r.Context(), id, name, actor(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusCreated, "organization", org)
}

// GetOrganization handles GET /organizations/{organizationId}
//
// @Summary Get an organization
// @Description Returns the organization and the configuration types it is missing, if any.
// @Tags organizations
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Success 200 {object} swagger.OrganizationDetailResponse
// @Failure 404 {object} swagger.ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationId} [get]
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "organizationId")

	org, err := h.orgs.GetOrganizationByID(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	status, err := h.orgs.GetProvisioningStatus(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"organization":       org,
		"missingConfigTypes": status.Missing,
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *OrganizationHandler) respond(w http.ResponseWriter, status int, key string, data interface{}) {
	if err := common.RespondSuccess(w, status, key, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
