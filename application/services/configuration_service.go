// Package services holds the application services: configuration record CRUD and
// the organization abstraction derived from ORGANIZATION_CONFIG records.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	"orgconfig/domain/core/validators"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfigurationService is the entry point for configuration record reads and writes.
type ConfigurationService struct {
	store     ports.ConfigStore
	validator *validators.ConfigValidator
	events    ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
	now       func() time.Time
}

// NewConfigurationService creates a new configuration service
func NewConfigurationService(
	store ports.ConfigStore,
	validator *validators.ConfigValidator,
	events ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ConfigurationService {
	return &ConfigurationService{
		store:     store,
		validator: validator,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// GetConfigurationsByOrganizationID returns every record stored for the
// organization, possibly none.
func (s *ConfigurationService) GetConfigurationsByOrganizationID(ctx context.Context, organizationID string) ([]ports.Item, error) {
	if err := requireOrganizationID(organizationID); err != nil {
		return nil, err
	}
	return s.store.Query(ctx, organizationID)
}

// GetConfigurationByType returns one record or NOT_FOUND naming the type and organization.
func (s *ConfigurationService) GetConfigurationByType(ctx context.Context, organizationID string, configType config.ConfigType) (ports.Item, error) {
	if err := requireOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if !configType.IsValid() {
		return nil, InvalidConfigTypeError(string(configType))
	}

	item, err := s.store.Get(ctx, ports.Key{OrganizationID: organizationID, ConfigType: configType})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("Configuration of type %s not found for organization %s", configType, organizationID)).
			WithDetails(map[string]interface{}{
				"organizationId": organizationID,
				"configType":     string(configType),
			})
	}
	return item, nil
}

// UpdateConfiguration applies patch to the record of the given type. The patch
// loses its empty values and any key or audit attributes, is validated against
// the type's schema, stamped and written with a partial update, so attributes
// the patch does not carry keep their stored values. The result holds what was
// written by this call.
func (s *ConfigurationService) UpdateConfiguration(ctx context.Context, organizationID string, configType config.ConfigType, patch ports.Item, updatedBy string) (ports.Item, error) {
	if err := requireOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if !configType.IsValid() {
		return nil, InvalidConfigTypeError(string(configType))
	}

	// Empty values are dropped before validation so that an object emptied
	// by cleaning leaves the stored attribute alone.
	cleaned := config.RemoveEmptyFields(config.WithoutProtected(patch))
	data := config.Merge(cleaned, ports.Item{
		config.AttrOrganizationID: organizationID,
		config.AttrConfigType:     string(configType),
	})
	rec, fieldErrs := s.validator.Validate(configType, data)
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("Invalid configuration data", fieldErrs)
	}

	meta := rec.Meta()
	meta.UpdatedAt = config.Timestamp(s.now())
	meta.UpdatedBy = actorOrSystem(updatedBy)

	validated, err := config.ToDocument(rec)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to prepare configuration update").WithCause(err)
	}
	doc := config.RemoveEmptyFields(config.PickFold(validated, cleaned))
	doc[config.AttrUpdatedAt] = meta.UpdatedAt
	doc[config.AttrUpdatedBy] = meta.UpdatedBy

	key := ports.Key{OrganizationID: organizationID, ConfigType: configType}
	updated, err := s.store.Update(ctx, key, doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Configuration updated",
		zap.String("organizationId", organizationID),
		zap.String("configType", string(configType)),
		zap.String("updatedBy", meta.UpdatedBy),
		zap.Int("attributes", len(doc)),
	)
	s.metrics.IncConfigurationsUpdated(string(configType))
	s.publish(ctx, ports.EventConfigurationUpdated, organizationID, configType, meta.UpdatedBy, updated)
	return updated, nil
}

// CreateConfigurationRecord writes the type's default record with extraData
// laid over it. The write is an upsert: an existing record is replaced.
func (s *ConfigurationService) CreateConfigurationRecord(ctx context.Context, organizationID string, configType config.ConfigType, extraData ports.Item, createdBy string) (ports.Item, error) {
	item, err := s.createRecord(ctx, organizationID, configType, extraData, createdBy, ports.PutOptions{})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.EventConfigurationCreated, organizationID, configType, actorOrSystem(createdBy), item)
	return item, nil
}

func (s *ConfigurationService) createRecord(ctx context.Context, organizationID string, configType config.ConfigType, extraData ports.Item, createdBy string, opts ports.PutOptions) (ports.Item, error) {
	if err := requireOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if !configType.IsValid() {
		return nil, InvalidConfigTypeError(string(configType))
	}

	base, err := config.ToDocument(config.CreateDefault(organizationID, configType))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build default configuration").WithCause(err)
	}
	now := config.Timestamp(s.now())
	data := config.Merge(base, config.WithoutProtected(extraData))

	rec, fieldErrs := s.validator.Validate(configType, data)
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("Invalid configuration data", fieldErrs)
	}
	meta := rec.Meta()
	meta.OrganizationID = organizationID
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.UpdatedBy = actorOrSystem(createdBy)

	doc, err := config.ToDocument(rec)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to prepare configuration record").WithCause(err)
	}
	doc = config.RemoveEmptyFields(doc)

	if err := s.store.Put(ctx, doc, opts); err != nil {
		return nil, err
	}

	s.logger.Info("Configuration created",
		zap.String("organizationId", organizationID),
		zap.String("configType", string(configType)),
		zap.Bool("conditional", opts.IfNotExists),
	)
	return doc, nil
}

// publish emits an audit event. Delivery failures are logged and never fail
// the write that produced the event.
func (s *ConfigurationService) publish(ctx context.Context, eventType, organizationID string, configType config.ConfigType, actor string, payload interface{}) {
	publishEvent(ctx, s.events, s.logger, ports.Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: organizationID,
		ConfigType:     string(configType),
		Actor:          actor,
		OccurredAt:     s.now().UTC(),
		Payload:        payload,
	})
}

func publishEvent(ctx context.Context, events ports.EventPublisher, logger *zap.Logger, event ports.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish audit event",
			zap.String("eventType", event.Type),
			zap.String("organizationId", event.OrganizationID),
			zap.Error(err),
		)
	}
}

// InvalidConfigTypeError is the VALIDATION_ERROR returned for a configuration
// type outside the known set. It lists the valid types.
func InvalidConfigTypeError(configType string) *apperrors.AppError {
	valid := config.ConfigTypeNames()
	msg := fmt.Sprintf("Invalid configuration type: %s", configType)
	return apperrors.NewValidationError(msg, []apperrors.FieldError{{
		Field:   config.AttrConfigType,
		Message: fmt.Sprintf("%s. Expected one of %s", msg, strings.Join(valid, ", ")),
	}}).WithDetails(map[string]interface{}{"validTypes": valid})
}

func requireOrganizationID(organizationID string) error {
	if strings.TrimSpace(organizationID) == "" {
		return apperrors.NewValidationError("Organization ID is required", []apperrors.FieldError{
			{Field: config.AttrOrganizationID, Message: "Required"},
		})
	}
	return nil
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return config.SystemActor
	}
	return actor
}
