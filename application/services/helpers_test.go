package services

import (
	"context"
	"sync"
	"time"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	"orgconfig/domain/core/validators"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// mockStore is a testify mock of ports.ConfigStore.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key ports.Key) (ports.Item, error) {
	args := m.Called(ctx, key)
	item, _ := args.Get(0).(ports.Item)
	return item, args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, item ports.Item, opts ports.PutOptions) error {
	args := m.Called(ctx, item, opts)
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, key ports.Key, attrs ports.Item) (ports.Item, error) {
	args := m.Called(ctx, key, attrs)
	item, _ := args.Get(0).(ports.Item)
	return item, args.Error(1)
}

func (m *mockStore) Query(ctx context.Context, organizationID string) ([]ports.Item, error) {
	args := m.Called(ctx, organizationID)
	items, _ := args.Get(0).([]ports.Item)
	return items, args.Error(1)
}

func (m *mockStore) Scan(ctx context.Context, configType config.ConfigType) ([]ports.Item, error) {
	args := m.Called(ctx, configType)
	items, _ := args.Get(0).([]ports.Item)
	return items, args.Error(1)
}

func (m *mockStore) BatchGet(ctx context.Context, keys []ports.Key) ([]ports.Item, error) {
	args := m.Called(ctx, keys)
	items, _ := args.Get(0).([]ports.Item)
	return items, args.Error(1)
}

func (m *mockStore) QueryBySSOProvider(ctx context.Context, providerID string) ([]ports.Item, error) {
	args := m.Called(ctx, providerID)
	items, _ := args.Get(0).([]ports.Item)
	return items, args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newServices(store ports.ConfigStore, events ports.EventPublisher, opts OrganizationOptions) (*ConfigurationService, *OrganizationService) {
	logger := zap.NewNop()
	configs := NewConfigurationService(store, validators.NewConfigValidator(), events, nil, logger)
	configs.now = func() time.Time { return fixedNow }
	orgs := NewOrganizationService(store, configs, validators.NewOrganizationValidator(), events, nil, logger, opts)
	return configs, orgs
}

func itemOfType(t config.ConfigType) interface{} {
	return mock.MatchedBy(func(item ports.Item) bool {
		return item[config.AttrConfigType] == string(t)
	})
}
