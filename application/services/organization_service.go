package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	"orgconfig/domain/core/validators"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Organization is the projection of an ORGANIZATION_CONFIG record.
type Organization struct {
	OrganizationID string `json:"OrganizationId"`
	Name           string `json:"Name"`
}

// ProvisioningStatus reports which of the four records an organization has.
type ProvisioningStatus struct {
	OrganizationID string              `json:"OrganizationId"`
	Present        []config.ConfigType `json:"present"`
	Missing        []config.ConfigType `json:"missing"`
}

// Complete reports whether every configuration type is present.
func (p ProvisioningStatus) Complete() bool {
	return len(p.Missing) == 0
}

// OrganizationOptions tunes organization creation.
type OrganizationOptions struct {
	// GuardedCreate writes the ORGANIZATION_CONFIG record with a conditional
	// put, so concurrent creates for one id cannot both succeed.
	GuardedCreate bool
}

// OrganizationService implements the organization operations on top of
// ORGANIZATION_CONFIG records. There is no organization table.
type OrganizationService struct {
	store     ports.ConfigStore
	configs   *ConfigurationService
	validator *validators.OrganizationValidator
	events    ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
	opts      OrganizationOptions
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	store ports.ConfigStore,
	configs *ConfigurationService,
	validator *validators.OrganizationValidator,
	events ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
	opts OrganizationOptions,
) *OrganizationService {
	return &OrganizationService{
		store:     store,
		configs:   configs,
		validator: validator,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}
}

// GetOrganizations lists every organization sorted by name.
func (s *OrganizationService) GetOrganizations(ctx context.Context) ([]Organization, error) {
	items, err := s.store.Scan(ctx, config.TypeOrganization)
	if err != nil {
		return nil, err
	}
	orgs := projectOrganizations(items)
	sortByName(orgs)
	return orgs, nil
}

// GetOrganizationByID returns the organization or NOT_FOUND naming the id.
func (s *OrganizationService) GetOrganizationByID(ctx context.Context, organizationID string) (Organization, error) {
	item, err := s.configs.GetConfigurationByType(ctx, organizationID, config.TypeOrganization)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return Organization{}, apperrors.NewNotFoundError(
				fmt.Sprintf("Organization with ID %s not found", organizationID)).
				WithDetails(map[string]interface{}{"organizationId": organizationID})
		}
		return Organization{}, err
	}
	return toOrganization(item), nil
}

// GetOrganizationsByName returns organizations whose name contains term,
// ignoring case, sorted by name.
func (s *OrganizationService) GetOrganizationsByName(ctx context.Context, term string) ([]Organization, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError("Search term is required", []apperrors.FieldError{
			{Field: "name", Message: "Required"},
		})
	}

	all, err := s.GetOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	matches := make([]Organization, 0)
	for _, org := range all {
		if strings.Contains(strings.ToLower(org.Name), needle) {
			matches = append(matches, org)
		}
	}
	return matches, nil
}

// OrganizationExists is false only when the ORGANIZATION_CONFIG record is
// missing. Any other failure is returned unchanged.
func (s *OrganizationService) OrganizationExists(ctx context.Context, organizationID string) (bool, error) {
	_, err := s.GetOrganizationByID(ctx, organizationID)
	if err == nil {
		return true, nil
	}
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// CreateOrganization provisions a new organization: one default record per
// configuration type, ORGANIZATION_CONFIG seeded with name. The writes are not
// transactional; a failure part way leaves the records already written in
// place, and GetProvisioningStatus reports what is missing.
func (s *OrganizationService) CreateOrganization(ctx context.Context, organizationID, name, createdBy string) (Organization, error) {
	in, fieldErrs := s.validator.Validate(validators.NewOrganizationInput{OrganizationID: organizationID, Name: name})
	if len(fieldErrs) > 0 {
		return Organization{}, apperrors.NewValidationError("Invalid organization data", fieldErrs)
	}

	exists, err := s.OrganizationExists(ctx, in.OrganizationID)
	if err != nil {
		return Organization{}, err
	}
	if exists {
		return Organization{}, duplicateOrganization(in.OrganizationID)
	}

	written := make([]string, 0, len(config.ConfigTypes()))
	for _, t := range config.ConfigTypes() {
		var extra ports.Item
		opts := ports.PutOptions{}
		if t == config.TypeOrganization {
			extra = ports.Item{"Name": in.Name}
			opts.IfNotExists = s.opts.GuardedCreate
		}

		if _, err := s.configs.createRecord(ctx, in.OrganizationID, t, extra, createdBy, opts); err != nil {
			if t == config.TypeOrganization && apperrors.IsDuplicate(err) {
				return Organization{}, duplicateOrganization(in.OrganizationID)
			}
			s.logger.Error("Organization provisioning incomplete",
				zap.String("organizationId", in.OrganizationID),
				zap.String("failedType", string(t)),
				zap.Strings("writtenTypes", written),
				zap.Error(err),
			)
			return Organization{}, err
		}
		written = append(written, string(t))
	}

	org := Organization{OrganizationID: in.OrganizationID, Name: in.Name}
	s.logger.Info("Organization created",
		zap.String("organizationId", org.OrganizationID),
		zap.String("name", org.Name),
		zap.String("createdBy", actorOrSystem(createdBy)),
	)
	s.metrics.IncOrganizationsCreated()
	publishEvent(ctx, s.events, s.logger, ports.Event{
		ID:             uuid.NewString(),
		Type:           ports.EventOrganizationCreated,
		OrganizationID: org.OrganizationID,
		Actor:          actorOrSystem(createdBy),
		OccurredAt:     s.configs.now().UTC(),
		Payload:        org,
	})
	return org, nil
}

// GetOrganizationBySSOProvider returns the organizations whose
// ORGANIZATION_CONFIG carries providerID. At most one is expected.
func (s *OrganizationService) GetOrganizationBySSOProvider(ctx context.Context, providerID string) ([]Organization, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, apperrors.NewValidationError("SSO provider ID is required", []apperrors.FieldError{
			{Field: config.AttrSSOProviderID, Message: "Required"},
		})
	}

	items, err := s.store.QueryBySSOProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	orgItems := make([]ports.Item, 0, len(items))
	for _, item := range items {
		if t, _ := item[config.AttrConfigType].(string); t == string(config.TypeOrganization) {
			orgItems = append(orgItems, item)
		}
	}
	orgs := projectOrganizations(orgItems)
	sortByName(orgs)
	if len(orgs) > 1 {
		s.logger.Warn("SSO provider mapped to several organizations",
			zap.String("ssoProviderId", providerID),
			zap.Int("count", len(orgs)),
		)
	}
	return orgs, nil
}

// GetProvisioningStatus reports which configuration types exist for the organization.
func (s *OrganizationService) GetProvisioningStatus(ctx context.Context, organizationID string) (ProvisioningStatus, error) {
	if err := requireOrganizationID(organizationID); err != nil {
		return ProvisioningStatus{}, err
	}

	types := config.ConfigTypes()
	keys := make([]ports.Key, len(types))
	for i, t := range types {
		keys[i] = ports.Key{OrganizationID: organizationID, ConfigType: t}
	}
	items, err := s.store.BatchGet(ctx, keys)
	if err != nil {
		return ProvisioningStatus{}, err
	}

	found := make(map[config.ConfigType]bool, len(items))
	for _, item := range items {
		t, _ := item[config.AttrConfigType].(string)
		found[config.ConfigType(t)] = true
	}
	status := ProvisioningStatus{
		OrganizationID: organizationID,
		Present:        []config.ConfigType{},
		Missing:        []config.ConfigType{},
	}
	for _, t := range types {
		if found[t] {
			status.Present = append(status.Present, t)
		} else {
			status.Missing = append(status.Missing, t)
		}
	}
	return status, nil
}

func duplicateOrganization(organizationID string) *apperrors.AppError {
	return apperrors.NewDuplicateEntityError(
		fmt.Sprintf("Organization with ID %s already exists", organizationID)).
		WithDetails(map[string]interface{}{"organizationId": organizationID})
}

func toOrganization(item ports.Item) Organization {
	id, _ := item[config.AttrOrganizationID].(string)
	name, _ := item["Name"].(string)
	if name == "" {
		name = id
	}
	return Organization{OrganizationID: id, Name: name}
}

// projectOrganizations keeps the first record seen for each id.
func projectOrganizations(items []ports.Item) []Organization {
	seen := make(map[string]bool, len(items))
	orgs := make([]Organization, 0, len(items))
	for _, item := range items {
		org := toOrganization(item)
		if org.OrganizationID == "" || seen[org.OrganizationID] {
			continue
		}
		seen[org.OrganizationID] = true
		orgs = append(orgs, org)
	}
	return orgs
}

// sortByName orders by name with a root-locale collator: letters compare
// alphabetically first and case breaks ties, lower before upper.
func sortByName(orgs []Organization) {
	col := collate.New(language.Und)
	sort.SliceStable(orgs, func(i, j int) bool {
		return col.CompareString(orgs[i].Name, orgs[j].Name) < 0
	})
}
