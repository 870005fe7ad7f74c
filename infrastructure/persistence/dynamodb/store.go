// Package dynamodb implements ports.ConfigStore on a single DynamoDB table keyed
// by (OrganizationId, OrganizationConfigType).
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"orgconfig/application/ports"
	"orgconfig/domain/config"
	apperrors "orgconfig/pkg/errors"
	"orgconfig/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// DBClient is the subset of the DynamoDB API the store uses. *dynamodb.Client
// satisfies it; tests substitute a mock.
type DBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Operation names reported in DATABASE_ERROR details, logs and metrics.
const (
	opGet                = "get"
	opPut                = "put"
	opUpdate             = "update"
	opQuery              = "query"
	opScan               = "scan"
	opBatchGet           = "batchGet"
	opQueryBySSOProvider = "queryBySsoProvider"
	opPing               = "ping"
)

const (
	maxBatchGetKeys     = 100
	maxBatchGetAttempts = 5
	batchGetBackoff     = 50 * time.Millisecond
)

// Options configures a Store.
type Options struct {
	TableName        string
	SSOProviderIndex string
	Breaker          BreakerSettings
}

// BreakerSettings tunes the circuit breaker guarding store calls.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerSettings returns the breaker configuration used by the service.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Store is the DynamoDB persistence adapter.
type Store struct {
	client    DBClient
	tableName string
	ssoIndex  string
	breaker   *gobreaker.CircuitBreaker
	metrics   *observability.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
}

var _ ports.ConfigStore = (*Store)(nil)

// NewStore creates the adapter. metrics and tracer may be nil.
func NewStore(client DBClient, opts Options, metrics *observability.Collector, tracer trace.Tracer, logger *zap.Logger) *Store {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.SSOProviderIndex == "" {
		opts.SSOProviderIndex = DefaultSSOProviderIndex
	}
	if opts.Breaker == (BreakerSettings{}) {
		opts.Breaker = DefaultBreakerSettings()
	}
	s := &Store{
		client:    client,
		tableName: opts.TableName,
		ssoIndex:  opts.SSOProviderIndex,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
	s.breaker = newBreaker("dynamodb:"+opts.TableName, opts.Breaker, logger)
	return s
}

func newBreaker(name string, cfg BreakerSettings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A failed condition or a cancelled caller says nothing about the table's health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var ccf *types.ConditionalCheckFailedException
			return errors.As(err, &ccf) || errors.Is(err, context.Canceled)
		},
	})
}

// call runs fn through the breaker inside a span and translates its failure.
// Every exported method goes through here, so no driver error escapes the store.
func (s *Store) call(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "dynamodb."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.table", s.tableName),
		)...),
	)
	defer span.End()

	started := time.Now()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	s.metrics.ObserveDB(op, started, err)
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return apperrors.NewDuplicateEntityError("configuration record already exists").WithCause(err)
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("table", s.tableName),
		zap.Error(err),
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("aws_error_code", apiErr.ErrorCode()))
	}
	s.logger.Error("Database operation failed", fields...)
	return apperrors.NewDatabaseError(op, err)
}

// Get returns the record under key, or nil when there is none.
func (s *Store) Get(ctx context.Context, key ports.Key) (ports.Item, error) {
	var item ports.Item
	err := s.call(ctx, opGet, keyAttributes(key), func(ctx context.Context) error {
		out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key:       buildKey(key),
		})
		if err != nil {
			return err
		}
		if len(out.Item) == 0 {
			return nil
		}
		item, err = unmarshalItem(out.Item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Put writes item. With IfNotExists the write fails with DUPLICATE_ENTITY when
// a record already exists under the item's key.
func (s *Store) Put(ctx context.Context, item ports.Item, opts ports.PutOptions) error {
	key, err := keyOf(item)
	if err != nil {
		return err
	}
	return s.call(ctx, opPut, keyAttributes(key), func(ctx context.Context) error {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}

		input := &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		}
		if opts.IfNotExists {
			expr, err := expression.NewBuilder().
				WithCondition(expression.Name(config.AttrOrganizationID).AttributeNotExists()).
				Build()
			if err != nil {
				return fmt.Errorf("failed to build expression: %w", err)
			}
			input.ConditionExpression = expr.Condition()
			input.ExpressionAttributeNames = expr.Names()
		}

		_, err = s.client.PutItem(ctx, input)
		return err
	})
}

// Update SETs attrs on the record under key. Key attributes in attrs are
// ignored. The result holds what DynamoDB reports as written plus the key.
func (s *Store) Update(ctx context.Context, key ports.Key, attrs ports.Item) (ports.Item, error) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name == config.AttrOrganizationID || name == config.AttrConfigType {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return keyItem(key), nil
	}
	sort.Strings(names)

	result := keyItem(key)
	err := s.call(ctx, opUpdate, keyAttributes(key), func(ctx context.Context) error {
		update := expression.Set(expression.Name(names[0]), expression.Value(attrs[names[0]]))
		for _, name := range names[1:] {
			update = update.Set(expression.Name(name), expression.Value(attrs[name]))
		}
		expr, err := expression.NewBuilder().WithUpdate(update).Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}

		out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.tableName),
			Key:                       buildKey(key),
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueUpdatedNew,
		})
		if err != nil {
			return err
		}
		written, err := unmarshalItem(out.Attributes)
		if err != nil {
			return err
		}
		for k, v := range written {
			result[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Query returns every record of one organization.
func (s *Store) Query(ctx context.Context, organizationID string) ([]ports.Item, error) {
	attrs := []attribute.KeyValue{attribute.String("organization.id", organizationID)}
	var items []ports.Item
	err := s.call(ctx, opQuery, attrs, func(ctx context.Context) error {
		expr, err := expression.NewBuilder().
			WithKeyCondition(expression.Key(config.AttrOrganizationID).Equal(expression.Value(organizationID))).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}
		items, err = s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// QueryBySSOProvider looks records up through the SSO provider index.
func (s *Store) QueryBySSOProvider(ctx context.Context, providerID string) ([]ports.Item, error) {
	attrs := []attribute.KeyValue{attribute.String("sso.provider_id", providerID)}
	var items []ports.Item
	err := s.call(ctx, opQueryBySSOProvider, attrs, func(ctx context.Context) error {
		expr, err := expression.NewBuilder().
			WithKeyCondition(expression.Key(config.AttrSSOProviderID).Equal(expression.Value(providerID))).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}
		items, err = s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			IndexName:                 aws.String(s.ssoIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]ports.Item, error) {
	items := []ports.Item{}
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		page, err := unmarshalItems(out.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Scan returns every organization's record of one type.
func (s *Store) Scan(ctx context.Context, configType config.ConfigType) ([]ports.Item, error) {
	attrs := []attribute.KeyValue{attribute.String("config.type", string(configType))}
	items := []ports.Item{}
	err := s.call(ctx, opScan, attrs, func(ctx context.Context) error {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name(config.AttrConfigType).Equal(expression.Value(string(configType)))).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(s.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}
		for {
			out, err := s.client.Scan(ctx, input)
			if err != nil {
				return err
			}
			page, err := unmarshalItems(out.Items)
			if err != nil {
				return err
			}
			items = append(items, page...)
			if len(out.LastEvaluatedKey) == 0 {
				return nil
			}
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// BatchGet fetches the records that exist among keys. Unprocessed keys are
// retried with a short linear backoff.
func (s *Store) BatchGet(ctx context.Context, keys []ports.Key) ([]ports.Item, error) {
	items := []ports.Item{}
	if len(keys) == 0 {
		return items, nil
	}
	if len(keys) > maxBatchGetKeys {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d keys can be fetched at once", maxBatchGetKeys), nil)
	}

	attrs := []attribute.KeyValue{attribute.Int("batch.size", len(keys))}
	err := s.call(ctx, opBatchGet, attrs, func(ctx context.Context) error {
		avKeys := make([]map[string]types.AttributeValue, len(keys))
		for i, k := range keys {
			avKeys[i] = buildKey(k)
		}
		request := map[string]types.KeysAndAttributes{
			s.tableName: {Keys: avKeys},
		}

		for attempt := 1; len(request) > 0; attempt++ {
			if attempt > maxBatchGetAttempts {
				return fmt.Errorf("batch get left %d keys unprocessed after %d attempts",
					len(request[s.tableName].Keys), maxBatchGetAttempts)
			}
			if attempt > 1 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt-1) * batchGetBackoff):
				}
			}

			out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return err
			}
			page, err := unmarshalItems(out.Responses[s.tableName])
			if err != nil {
				return err
			}
			items = append(items, page...)
			request = out.UnprocessedKeys
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks that the table exists and is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.call(ctx, opPing, nil, func(ctx context.Context) error {
		out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(s.tableName),
		})
		if err != nil {
			return err
		}
		if out.Table == nil {
			return fmt.Errorf("table %s not described", s.tableName)
		}
		switch out.Table.TableStatus {
		case types.TableStatusActive, types.TableStatusUpdating:
			return nil
		default:
			return fmt.Errorf("table %s is %s", s.tableName, out.Table.TableStatus)
		}
	})
}

func buildKey(key ports.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		config.AttrOrganizationID: &types.AttributeValueMemberS{Value: key.OrganizationID},
		config.AttrConfigType:     &types.AttributeValueMemberS{Value: string(key.ConfigType)},
	}
}

func keyItem(key ports.Key) ports.Item {
	return ports.Item{
		config.AttrOrganizationID: key.OrganizationID,
		config.AttrConfigType:     string(key.ConfigType),
	}
}

func keyAttributes(key ports.Key) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("organization.id", key.OrganizationID),
		attribute.String("config.type", string(key.ConfigType)),
	}
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

func unmarshalItem(av map[string]types.AttributeValue) (ports.Item, error) {
	item := ports.Item{}
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}

func unmarshalItems(avs []map[string]types.AttributeValue) ([]ports.Item, error) {
	items := make([]ports.Item, 0, len(avs))
	for _, av := range avs {
		item, err := unmarshalItem(av)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
