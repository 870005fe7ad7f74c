package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgconfig/domain/config"
	apperrors "orgconfig/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DefaultSSOProviderIndex is the name of the global index on ExternalSsoProviderId.
const DefaultSSOProviderIndex = "ExternalSsoProviderIdIndex"

// TableDefinition returns the CreateTable input for the configuration table:
// OrganizationId as partition key, OrganizationConfigType as sort key and a
// hash-only global index on ExternalSsoProviderId.
func TableDefinition(tableName, ssoIndex string) *dynamodb.CreateTableInput {
	if ssoIndex == "" {
		ssoIndex = DefaultSSOProviderIndex
	}
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(config.AttrOrganizationID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(config.AttrConfigType), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(config.AttrSSOProviderID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(config.AttrOrganizationID), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(config.AttrConfigType), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(ssoIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(config.AttrSSOProviderID), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// CreateTable creates the configuration table and waits for it to become
// active. A table that already exists is not an error.
func (s *Store) CreateTable(ctx context.Context, wait time.Duration) error {
	_, err := s.client.CreateTable(ctx, TableDefinition(s.tableName, s.ssoIndex))
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			s.logger.Info("Table already exists", zap.String("table", s.tableName))
			return nil
		}
		return apperrors.NewDatabaseError("createTable", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)}, wait); err != nil {
		return apperrors.NewDatabaseError("createTable", fmt.Errorf("waiting for table %s: %w", s.tableName, err))
	}

	s.logger.Info("Table created", zap.String("table", s.tableName), zap.String("sso_index", s.ssoIndex))
	return nil
}
