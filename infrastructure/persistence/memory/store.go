// Package memory provides an in-process ports.ConfigStore used by tests and by
// local runs with STORE_DRIVER=memory.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	apperrors "orgconfig/pkg/errors"
)

// Store keeps records in a map guarded by a RWMutex. Items are copied through
// a JSON round trip on the way in and out, so callers never share state with
// the store and numbers come back as float64 as they do from DynamoDB.
type Store struct {
	mu      sync.RWMutex
	records map[ports.Key]ports.Item
}

var _ ports.ConfigStore = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: make(map[ports.Key]ports.Item)}
}

func (s *Store) Get(ctx context.Context, key ports.Key) (ports.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return clone(item)
}

func (s *Store) Put(ctx context.Context, item ports.Item, opts ports.PutOptions) error {
	key, err := keyOf(item)
	if err != nil {
		return err
	}
	stored, err := clone(item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists && opts.IfNotExists {
		return apperrors.NewDuplicateEntityError("configuration record already exists")
	}
	s.records[key] = stored
	return nil
}

func (s *Store) Update(ctx context.Context, key ports.Key, attrs ports.Item) (ports.Item, error) {
	written, err := clone(attrs)
	if err != nil {
		return nil, err
	}
	delete(written, config.AttrOrganizationID)
	delete(written, config.AttrConfigType)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[key]
	if !ok {
		current = ports.Item{
			config.AttrOrganizationID: key.OrganizationID,
			config.AttrConfigType:     string(key.ConfigType),
		}
		s.records[key] = current
	}
	for k, v := range written {
		current[k] = v
	}

	result, err := clone(written)
	if err != nil {
		return nil, err
	}
	result[config.AttrOrganizationID] = key.OrganizationID
	result[config.AttrConfigType] = string(key.ConfigType)
	return result, nil
}

func (s *Store) Query(ctx context.Context, organizationID string) ([]ports.Item, error) {
	return s.collect(func(key ports.Key, _ ports.Item) bool {
		return key.OrganizationID == organizationID
	})
}

func (s *Store) Scan(ctx context.Context, configType config.ConfigType) ([]ports.Item, error) {
	return s.collect(func(key ports.Key, _ ports.Item) bool {
		return key.ConfigType == configType
	})
}

func (s *Store) BatchGet(ctx context.Context, keys []ports.Key) ([]ports.Item, error) {
	wanted := make(map[ports.Key]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	return s.collect(func(key ports.Key, _ ports.Item) bool {
		return wanted[key]
	})
}

func (s *Store) QueryBySSOProvider(ctx context.Context, providerID string) ([]ports.Item, error) {
	return s.collect(func(_ ports.Key, item ports.Item) bool {
		id, _ := item[config.AttrSSOProviderID].(string)
		return id != "" && id == providerID
	})
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Len reports how many records are stored
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// collect returns copies of the matching records ordered by key, which keeps
// results stable in tests.
func (s *Store) collect(match func(ports.Key, ports.Item) bool) ([]ports.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]ports.Key, 0)
	for k, item := range s.records {
		if match(k, item) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OrganizationID != keys[j].OrganizationID {
			return keys[i].OrganizationID < keys[j].OrganizationID
		}
		return keys[i].ConfigType < keys[j].ConfigType
	})

	items := make([]ports.Item, 0, len(keys))
	for _, k := range keys {
		item, err := clone(s.records[k])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func keyOf(item ports.Item) (ports.Key, error) {
	id, _ := item[config.AttrOrganizationID].(string)
	t, _ := item[config.AttrConfigType].(string)
	if id == "" || t == "" {
		return ports.Key{}, apperrors.NewValidationError("item is missing its key attributes", []apperrors.FieldError{
			{Field: config.AttrOrganizationID, Message: "Required"},
			{Field: config.AttrConfigType, Message: "Required"},
		})
	}
	return ports.Key{OrganizationID: id, ConfigType: config.ConfigType(t)}, nil
}

func clone(item ports.Item) (ports.Item, error) {
	if item == nil {
		return ports.Item{}, nil
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, apperrors.NewDatabaseError("clone", fmt.Errorf("failed to encode item: %w", err))
	}
	out := ports.Item{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewDatabaseError("clone", fmt.Errorf("failed to decode item: %w", err))
	}
	return out, nil
}
