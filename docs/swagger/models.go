// Package swagger holds the OpenAPI document of the API and the models its
// annotations refer to.
package swagger

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success    bool                   `json:"success" example:"false"`
	Error      string                 `json:"error" example:"Organization with ID org1 not found"`
	Code       string                 `json:"code" example:"NOT_FOUND" enums:"VALIDATION_ERROR,NOT_FOUND,DUPLICATE_ENTITY,DATABASE_ERROR,UNAUTHORIZED,FORBIDDEN,INTERNAL_SERVER_ERROR,METHOD_NOT_ALLOWED"`
	Details    map[string]interface{} `json:"details,omitempty"`
	ValidTypes []string               `json:"validTypes,omitempty"`
}

// Organization is the organization projection
type Organization struct {
	OrganizationID string `json:"OrganizationId" example:"org1"`
	Name           string `json:"Name" example:"Example Team"`
}

// CreateOrganizationRequest is the body of POST /organizations
type CreateOrganizationRequest struct {
	OrganizationID string `json:"OrganizationId" example:"org1"`
	Name           string `json:"Name" example:"Example Team"`
}

type OrganizationListResponse struct {
	Success       bool           `json:"success" example:"true"`
	Organizations []Organization `json:"organizations"`
}

type OrganizationResponse struct {
	Success      bool         `json:"success" example:"true"`
	Organization Organization `json:"organization"`
}

type OrganizationDetailResponse struct {
	Success            bool         `json:"success" example:"true"`
	Organization       Organization `json:"organization"`
	MissingConfigTypes []string     `json:"missingConfigTypes"`
}

type ConfigResponse struct {
	Success bool                   `json:"success" example:"true"`
	Config  map[string]interface{} `json:"config"`
}

type ConfigListResponse struct {
	Success bool                     `json:"success" example:"true"`
	Configs []map[string]interface{} `json:"configs"`
}

type HealthResponse struct {
	Success    bool                         `json:"success"`
	Timestamp  string                       `json:"timestamp" example:"2024-01-01T00:00:00.000Z"`
	Components map[string]map[string]string `json:"components"`
}
