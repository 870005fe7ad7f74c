package ports

import (
	"context"
	"time"

	"orgconfig/domain/config"
)

// Item is a stored record as a JSON-shaped attribute document.
type Item = map[string]interface{}

// Key is the composite primary key of a configuration record.
type Key struct {
	OrganizationID string
	ConfigType     config.ConfigType
}

// PutOptions tunes a Put.
type PutOptions struct {
	// IfNotExists makes the write conditional on no record existing under the key.
	// A failed condition is reported as DUPLICATE_ENTITY.
	IfNotExists bool
}

// ConfigStore is the persistence adapter for configuration records. Every
// failure it returns is an *errors.AppError; the underlying driver's error types
// never leak to callers.
type ConfigStore interface {
	// Get returns the record under key, or nil (and no error) if there is none.
	Get(ctx context.Context, key Key) (Item, error)
	// Put writes item unconditionally unless opts asks otherwise.
	Put(ctx context.Context, item Item, opts PutOptions) error
	// Update sets the given attributes on the record under key and returns the
	// attributes it wrote together with the key.
	Update(ctx context.Context, key Key, attrs Item) (Item, error)
	// Query returns every record stored for one organization.
	Query(ctx context.Context, organizationID string) ([]Item, error)
	// Scan returns every organization's record of one type.
	Scan(ctx context.Context, configType config.ConfigType) ([]Item, error)
	// BatchGet returns the records that exist among keys, in no particular order.
	BatchGet(ctx context.Context, keys []Key) ([]Item, error)
	// QueryBySSOProvider returns the records indexed under an external SSO provider id.
	QueryBySSOProvider(ctx context.Context, providerID string) ([]Item, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// Event is an audit event emitted after a successful write.
type Event struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	OrganizationID string      `json:"organizationId"`
	ConfigType     string      `json:"configType,omitempty"`
	Actor          string      `json:"actor"`
	OccurredAt     time.Time   `json:"occurredAt"`
	Payload        interface{} `json:"payload,omitempty"`
}

// Event types
const (
	EventOrganizationCreated  = "OrganizationCreated"
	EventConfigurationCreated = "ConfigurationCreated"
	EventConfigurationUpdated = "ConfigurationUpdated"
)

// EventPublisher delivers audit events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
