package dynamodb

import (
	"context"
	"errors"
	"testing"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTable = "org-config-test"

// mockDBClient is a testify mock of DBClient.
type mockDBClient struct {
	mock.Mock
}

func (m *mockDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.ScanOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.BatchGetItemOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func (m *mockDBClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func newTestStore(client DBClient, metrics *observability.Collector) *Store {
	return NewStore(client, Options{TableName: testTable}, metrics, nil, zap.NewNop())
}

func avItem(t *testing.T, item ports.Item) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	return av
}

func orgKey(id string) ports.Key {
	return ports.Key{OrganizationID: id, ConfigType: config.TypeOrganization}
}

func TestStore_Get_Found(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		id := in.Key[config.AttrOrganizationID].(*types.AttributeValueMemberS).Value
		return aws.ToString(in.TableName) == testTable && id == "org1"
	})).Return(&dynamodb.GetItemOutput{Item: avItem(t, ports.Item{
		config.AttrOrganizationID: "org1",
		config.AttrConfigType:     "ORGANIZATION_CONFIG",
		"Name":                    "Team",
		"BuyTabs":                 []interface{}{map[string]interface{}{"Label": "General"}},
	})}, nil)

	// Act
	item, err := store.Get(context.Background(), orgKey("org1"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Team", item["Name"])
	assert.Equal(t, []interface{}{map[string]interface{}{"Label": "General"}}, item["BuyTabs"])
	client.AssertExpectations(t)
}

func TestStore_Get_Missing(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	item, err := store.Get(context.Background(), orgKey("ghost"))

	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestStore_Get_DriverErrorBecomesDatabaseError(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	metrics := observability.NewCollector("test")
	store := newTestStore(client, metrics)
	client.On("GetItem", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"})

	// Act
	_, err := store.Get(context.Background(), orgKey("org1"))

	// Assert
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeDatabase, appErr.Type)
	assert.Equal(t, "get", appErr.Details["operation"])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DBOperations.WithLabelValues("get", "error")))
}

func TestStore_Put_Unconditional(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.ConditionExpression == nil && len(in.Item) == 3
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := store.Put(context.Background(), ports.Item{
		config.AttrOrganizationID: "org1",
		config.AttrConfigType:     "CLIENT_CONFIG",
		"TermsUrl":                "https://example.com/terms",
	}, ports.PutOptions{})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStore_Put_ConditionalConflict(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.ConditionExpression != nil &&
			assert.ObjectsAreEqual(map[string]string{"#0": config.AttrOrganizationID}, in.ExpressionAttributeNames)
	})).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")})

	// Act
	err := store.Put(context.Background(), ports.Item{
		config.AttrOrganizationID: "org1",
		config.AttrConfigType:     "ORGANIZATION_CONFIG",
	}, ports.PutOptions{IfNotExists: true})

	// Assert
	assert.True(t, apperrors.IsDuplicate(err))
	client.AssertExpectations(t)
}

func TestStore_Put_MissingKey(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)

	err := store.Put(context.Background(), ports.Item{"Name": "x"}, ports.PutOptions{})

	assert.True(t, apperrors.IsValidation(err))
	client.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
}

func TestStore_Update_SetsOnlyNonKeyAttributes(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	var captured *dynamodb.UpdateItemInput
	client.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{Attributes: avItem(t, ports.Item{
			"Name":               "New",
			config.AttrUpdatedBy: "ops",
		})}, nil)

	// Act
	result, err := store.Update(context.Background(), orgKey("org1"), ports.Item{
		config.AttrOrganizationID: "other",
		"Name":                    "New",
		config.AttrUpdatedBy:      "ops",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, types.ReturnValueUpdatedNew, captured.ReturnValues)
	assert.Contains(t, aws.ToString(captured.UpdateExpression), "SET")
	names := make([]string, 0, len(captured.ExpressionAttributeNames))
	for _, n := range captured.ExpressionAttributeNames {
		names = append(names, n)
	}
	assert.ElementsMatch(t, []string{"Name", config.AttrUpdatedBy}, names)
	assert.Len(t, captured.ExpressionAttributeValues, 2)
	assert.Equal(t, ports.Item{
		config.AttrOrganizationID: "org1",
		config.AttrConfigType:     "ORGANIZATION_CONFIG",
		"Name":                    "New",
		config.AttrUpdatedBy:      "ops",
	}, result)
}

func TestStore_Update_NothingToSet(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)

	result, err := store.Update(context.Background(), orgKey("org1"), ports.Item{config.AttrConfigType: "x"})

	require.NoError(t, err)
	assert.Equal(t, ports.Item{config.AttrOrganizationID: "org1", config.AttrConfigType: "ORGANIZATION_CONFIG"}, result)
	client.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestStore_Scan_FollowsPages(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	lastKey := map[string]types.AttributeValue{config.AttrOrganizationID: &types.AttributeValueMemberS{Value: "a"}}
	client.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.FilterExpression != nil
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{avItem(t, ports.Item{config.AttrOrganizationID: "a"})},
		LastEvaluatedKey: lastKey,
	}, nil).Once()
	client.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return len(in.ExclusiveStartKey) == 1
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{avItem(t, ports.Item{config.AttrOrganizationID: "b"})},
	}, nil).Once()

	// Act
	items, err := store.Scan(context.Background(), config.TypeOrganization)

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0][config.AttrOrganizationID])
	assert.Equal(t, "b", items[1][config.AttrOrganizationID])
	client.AssertExpectations(t)
}

func TestStore_Query_Empty(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.IndexName == nil && in.KeyConditionExpression != nil
	})).Return(&dynamodb.QueryOutput{}, nil)

	items, err := store.Query(context.Background(), "org1")

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_QueryBySSOProvider_UsesIndex(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == DefaultSSOProviderIndex
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		avItem(t, ports.Item{config.AttrOrganizationID: "org1", config.AttrSSOProviderID: "okta"}),
	}}, nil)

	items, err := store.QueryBySSOProvider(context.Background(), "okta")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "okta", items[0][config.AttrSSOProviderID])
}

func TestStore_BatchGet_RetriesUnprocessedKeys(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	keys := []ports.Key{orgKey("org1"), {OrganizationID: "org1", ConfigType: config.TypeClient}}
	client.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
		return len(in.RequestItems[testTable].Keys) == 2
	})).Return(&dynamodb.BatchGetItemOutput{
		Responses: map[string][]map[string]types.AttributeValue{
			testTable: {avItem(t, ports.Item{config.AttrConfigType: "ORGANIZATION_CONFIG"})},
		},
		UnprocessedKeys: map[string]types.KeysAndAttributes{
			testTable: {Keys: []map[string]types.AttributeValue{buildKey(keys[1])}},
		},
	}, nil).Once()
	client.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
		return len(in.RequestItems[testTable].Keys) == 1
	})).Return(&dynamodb.BatchGetItemOutput{
		Responses: map[string][]map[string]types.AttributeValue{
			testTable: {avItem(t, ports.Item{config.AttrConfigType: "CLIENT_CONFIG"})},
		},
	}, nil).Once()

	// Act
	items, err := store.BatchGet(context.Background(), keys)

	// Assert
	require.NoError(t, err)
	assert.Len(t, items, 2)
	client.AssertExpectations(t)
}

func TestStore_BatchGet_TooManyKeys(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	keys := make([]ports.Key, maxBatchGetKeys+1)

	_, err := store.BatchGet(context.Background(), keys)

	assert.True(t, apperrors.IsValidation(err))
	client.AssertNotCalled(t, "BatchGetItem", mock.Anything, mock.Anything)
}

func TestStore_Ping(t *testing.T) {
	tests := []struct {
		name    string
		out     *dynamodb.DescribeTableOutput
		err     error
		healthy bool
	}{
		{"active", &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusActive}}, nil, true},
		{"creating", &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusCreating}}, nil, false},
		{"missing", nil, &types.ResourceNotFoundException{Message: aws.String("no table")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockDBClient)
			store := newTestStore(client, nil)
			client.On("DescribeTable", mock.Anything, mock.Anything).Return(tt.out, tt.err)

			err := store.Ping(context.Background())

			if tt.healthy {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.IsDatabase(err))
			}
		})
	}
}

func TestStore_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	// Arrange
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Times(5)

	// Act
	for i := 0; i < 5; i++ {
		_, err := store.Get(context.Background(), orgKey("org1"))
		require.True(t, apperrors.IsDatabase(err))
	}
	_, err := store.Get(context.Background(), orgKey("org1"))

	// Assert
	assert.True(t, apperrors.IsDatabase(err))
	client.AssertNumberOfCalls(t, "GetItem", 5)
}

func TestStore_ConditionalFailuresDoNotTripBreaker(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")})
	item := ports.Item{config.AttrOrganizationID: "org1", config.AttrConfigType: "ORGANIZATION_CONFIG"}

	for i := 0; i < 10; i++ {
		err := store.Put(context.Background(), item, ports.PutOptions{IfNotExists: true})
		require.True(t, apperrors.IsDuplicate(err))
	}

	client.AssertNumberOfCalls(t, "PutItem", 10)
}

func TestStore_CreateTable_AlreadyExists(t *testing.T) {
	client := new(mockDBClient)
	store := newTestStore(client, nil)
	client.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return aws.ToString(in.TableName) == testTable && len(in.GlobalSecondaryIndexes) == 1
	})).Return(nil, &types.ResourceInUseException{Message: aws.String("exists")})

	err := store.CreateTable(context.Background(), 0)

	require.NoError(t, err)
	client.AssertNotCalled(t, "DescribeTable", mock.Anything, mock.Anything)
}

func TestTableDefinition(t *testing.T) {
	def := TableDefinition("tbl", "")

	assert.Equal(t, types.BillingModePayPerRequest, def.BillingMode)
	require.Len(t, def.KeySchema, 2)
	assert.Equal(t, config.AttrOrganizationID, aws.ToString(def.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeRange, def.KeySchema[1].KeyType)
	require.Len(t, def.GlobalSecondaryIndexes, 1)
	assert.Equal(t, DefaultSSOProviderIndex, aws.ToString(def.GlobalSecondaryIndexes[0].IndexName))
}
