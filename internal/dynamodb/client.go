package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/store"
)

const (
	// GSIStatus is the name of the Global Secondary Index used to list a
	// team's initiatives. Partition key: identifiers, sort key: status.
	// The partition key value (TEAM#<teamId>#INITIATIVE) is team-scoped,
	// so each team's listing reads a single partition.
	GSIStatus = "GSIStatus"

	// GSIType is the name of the Global Secondary Index used to enumerate
	// all initiatives across teams. Partition key: type, sort key: status.
	//
	// All initiative records share the partition key value "INITIATIVE",
	// which creates a hot partition. At higher scale, consider sharding
	// (e.g., "INITIATIVE#<shard>" where shard = hash(teamID) % N) to
	// distribute load. This would require schema changes and a data
	// migration.
	GSIType = "GSIType"
)

// Client is a DynamoDB-backed implementation of the [store.Gateway]
// interface. It uses a single-table design with composite sort keys to
// store initiative and member records.
//
// Use [New] to create a Client, [Client.Connect] to initialize the
// underlying DynamoDB connection, and [Client.Init] to validate the table
// schema.
type Client struct {
	client    API
	tableName string
	awsCfg    *aws.Config
	opts      *Options
}

// Compile-time check that Client satisfies the store contract.
var _ store.Gateway = (*Client)(nil)

// New creates a new Client configured with the given AWS config, table
// name, and optional options. Call [Client.Connect] on the returned client
// before use.
func New(awsCfg *aws.Config, tableName string, opts ...Option) *Client {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	return &Client{
		awsCfg:    awsCfg,
		tableName: tableName,
		opts:      options,
	}
}

// Connect initializes the DynamoDB client from the AWS config provided to
// [New]. It must be called before any other Client methods, and must
// complete before the Client is used concurrently.
func (c *Client) Connect() error {
	if err := c.opts.validate(); err != nil {
		return fmt.Errorf("invalid DynamoDB options: %w", err)
	}

	// Use injected DynamoDB API if provided (useful for testing).
	if c.opts.dynamoDBAPI != nil {
		c.client = c.opts.dynamoDBAPI
	} else {
		c.client = dynamodb.NewFromConfig(*c.awsCfg)
	}

	return nil
}

// Init validates the DynamoDB table schema. It checks that the table
// exists, has the correct partition key (initiativeId) and sort key
// (identifiers), and that both required Global Secondary Indexes
// ([GSIStatus] and [GSIType]) are present and correctly configured.
//
// Pass skipSchemaValidation true to skip all checks and return immediately,
// which is useful when schema validation is managed separately.
func (c *Client) Init(ctx context.Context, skipSchemaValidation bool) error {
	if skipSchemaValidation {
		return nil
	}

	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(c.tableName),
	}

	response, err := c.client.DescribeTable(ctx, input)
	if err != nil {
		var notFoundError *dynamodbtypes.ResourceNotFoundException
		if errors.As(err, &notFoundError) {
			return fmt.Errorf("table %s does not exist", c.tableName)
		}
		return fmt.Errorf("failed to describe table %s: %w", c.tableName, err)
	}

	if len(response.Table.KeySchema) < 1 {
		return fmt.Errorf("table %s has no key schema", c.tableName)
	}

	if aws.ToString(response.Table.KeySchema[0].AttributeName) != initiative.PartitionKey {
		return fmt.Errorf("table %s has partition key %s, expected %s", c.tableName, aws.ToString(response.Table.KeySchema[0].AttributeName), initiative.PartitionKey)
	}

	if len(response.Table.KeySchema) < 2 {
		return fmt.Errorf("table %s has a simple primary key, expected composite", c.tableName)
	}

	if aws.ToString(response.Table.KeySchema[1].AttributeName) != initiative.SortKey {
		return fmt.Errorf("table %s has sort key %s, expected %s", c.tableName, aws.ToString(response.Table.KeySchema[1].AttributeName), initiative.SortKey)
	}

	if response.Table.TableStatus != dynamodbtypes.TableStatusActive {
		return fmt.Errorf("table %s is not active (status: %s)", c.tableName, response.Table.TableStatus)
	}

	// Verify secondary index for listing a team's initiatives.
	// Partition key: identifiers
	// Sort key: status
	if err := verifySecondaryIndex(response.Table, c.opts.statusIndexName, initiative.SortKey, initiative.StatusAttr); err != nil {
		return err
	}

	// Verify secondary index for enumerating all initiatives.
	// Partition key: type
	// Sort key: status
	if err := verifySecondaryIndex(response.Table, c.opts.typeIndexName, initiative.TypeAttr, initiative.StatusAttr); err != nil {
		return err
	}

	return nil
}

// GetItem reads one item by its full key. Returns an error wrapping
// [store.ErrNotFound] when no item exists under the key.
func (c *Client) GetItem(ctx context.Context, initiativeID, identifiers string) (*initiative.Record, error) {
	if initiativeID == "" {
		return nil, fmt.Errorf("%w: initiative ID cannot be empty", store.ErrRejected)
	}

	if identifiers == "" {
		return nil, fmt.Errorf("%w: identifiers cannot be empty", store.ErrRejected)
	}

	input := &dynamodb.GetItemInput{
		TableName: &c.tableName,
		Key:       itemKey(initiativeID, identifiers),
	}

	output, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get item from DynamoDB table %s: %w", c.tableName, err))
	}

	if len(output.Item) == 0 {
		return nil, fmt.Errorf("%w: %s / %s", store.ErrNotFound, initiativeID, identifiers)
	}

	var record initiative.Record
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item from DynamoDB table %s: %w", c.tableName, err)
	}

	return &record, nil
}

// QueryPrefix returns every item in the partition whose sort key begins
// with prefix, in query order, following LastEvaluatedKey until the result
// is complete.
func (c *Client) QueryPrefix(ctx context.Context, initiativeID, prefix string) ([]initiative.Record, error) {
	if initiativeID == "" {
		return nil, fmt.Errorf("%w: initiative ID cannot be empty", store.ErrRejected)
	}

	if prefix == "" {
		return nil, fmt.Errorf("%w: sort key prefix cannot be empty", store.ErrRejected)
	}

	queryInput := &dynamodb.QueryInput{
		TableName: &c.tableName,
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":pk":     &dynamodbtypes.AttributeValueMemberS{Value: initiativeID},
			":prefix": &dynamodbtypes.AttributeValueMemberS{Value: prefix},
		},
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :pk AND begins_with(%s, :prefix)", initiative.PartitionKey, initiative.SortKey)),
	}

	return c.queryAll(ctx, queryInput)
}

// PutItem writes the record unconditionally. Overwriting an existing item
// under the same key is the intended idempotent behaviour for membership
// upserts.
func (c *Client) PutItem(ctx context.Context, record initiative.Record) error {
	if record.InitiativeID == "" {
		return fmt.Errorf("%w: record initiative ID cannot be empty", store.ErrRejected)
	}

	if record.Identifiers == "" {
		return fmt.Errorf("%w: record identifiers cannot be empty", store.ErrRejected)
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: &c.tableName,
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return classify(fmt.Errorf("failed to write record to DynamoDB table %s: %w", c.tableName, err))
	}

	return nil
}

// UpdateFields partially updates the named fields of one item, leaving all
// other attributes untouched. The update expression is built from the
// explicit field map, with field names sorted so that identical updates
// produce identical expressions. An empty update set fails with
// [store.ErrRejected] before any request is issued.
func (c *Client) UpdateFields(ctx context.Context, initiativeID, identifiers string, updates store.FieldUpdates) error {
	if initiativeID == "" {
		return fmt.Errorf("%w: initiative ID cannot be empty", store.ErrRejected)
	}

	if identifiers == "" {
		return fmt.Errorf("%w: identifiers cannot be empty", store.ErrRejected)
	}

	if len(updates) == 0 {
		return fmt.Errorf("%w: empty field update set", store.ErrRejected)
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	names := make(map[string]string, len(fields))
	values := make(map[string]dynamodbtypes.AttributeValue, len(fields))
	assignments := make([]string, 0, len(fields))

	for i, field := range fields {
		value, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return fmt.Errorf("failed to marshal update value for field %s: %w", field, err)
		}

		nameRef := fmt.Sprintf("#f%d", i)
		valueRef := fmt.Sprintf(":v%d", i)
		names[nameRef] = field
		values[valueRef] = value
		assignments = append(assignments, nameRef+" = "+valueRef)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 &c.tableName,
		Key:                       itemKey(initiativeID, identifiers),
		UpdateExpression:          aws.String("SET " + strings.Join(assignments, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	if _, err := c.client.UpdateItem(ctx, input); err != nil {
		return classify(fmt.Errorf("failed to update item in DynamoDB table %s: %w", c.tableName, err))
	}

	return nil
}

// DeleteItem removes one item by its full key. Deleting a missing item is
// a no-op success.
func (c *Client) DeleteItem(ctx context.Context, initiativeID, identifiers string) error {
	if initiativeID == "" {
		return fmt.Errorf("%w: initiative ID cannot be empty", store.ErrRejected)
	}

	if identifiers == "" {
		return fmt.Errorf("%w: identifiers cannot be empty", store.ErrRejected)
	}

	input := &dynamodb.DeleteItemInput{
		TableName: &c.tableName,
		Key:       itemKey(initiativeID, identifiers),
	}

	if _, err := c.client.DeleteItem(ctx, input); err != nil {
		return classify(fmt.Errorf("failed to delete item from DynamoDB table %s: %w", c.tableName, err))
	}

	return nil
}

// QueryInitiatives returns the INITIATIVE records of one team from
// [GSIStatus], all of them when status is empty, otherwise only those with
// the given status.
func (c *Client) QueryInitiatives(ctx context.Context, teamID string, status initiative.Status) ([]initiative.Record, error) {
	if teamID == "" {
		return nil, fmt.Errorf("%w: team ID cannot be empty", store.ErrRejected)
	}

	queryInput := &dynamodb.QueryInput{
		TableName: &c.tableName,
		IndexName: aws.String(c.opts.statusIndexName),
		ExpressionAttributeNames: map[string]string{
			"#identifiers": initiative.SortKey,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":identifiers": &dynamodbtypes.AttributeValueMemberS{Value: initiative.InitiativeSortKey(teamID)},
		},
		KeyConditionExpression: aws.String("#identifiers = :identifiers"),
	}

	if status != "" {
		// "status" is a DynamoDB reserved word and must be aliased.
		queryInput.ExpressionAttributeNames["#status"] = initiative.StatusAttr
		queryInput.ExpressionAttributeValues[":status"] = &dynamodbtypes.AttributeValueMemberS{Value: string(status)}
		queryInput.KeyConditionExpression = aws.String("#identifiers = :identifiers AND #status = :status")
	}

	return c.queryAll(ctx, queryInput)
}

// QueryAllInitiatives returns every INITIATIVE record across all teams
// from [GSIType].
func (c *Client) QueryAllInitiatives(ctx context.Context) ([]initiative.Record, error) {
	queryInput := &dynamodb.QueryInput{
		TableName: &c.tableName,
		IndexName: aws.String(c.opts.typeIndexName),
		ExpressionAttributeNames: map[string]string{
			"#type": initiative.TypeAttr,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":type": &dynamodbtypes.AttributeValueMemberS{Value: initiative.TypeInitiative},
		},
		KeyConditionExpression: aws.String("#type = :type"),
	}

	return c.queryAll(ctx, queryInput)
}

// queryAll runs a query to completion, following LastEvaluatedKey across
// pages, and unmarshals every item.
func (c *Client) queryAll(ctx context.Context, queryInput *dynamodb.QueryInput) ([]initiative.Record, error) {
	var records []initiative.Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := c.client.Query(ctx, queryInput)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to query DynamoDB table %s: %w", c.tableName, err))
		}

		for _, item := range output.Items {
			var record initiative.Record
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("failed to unmarshal item from DynamoDB table %s: %w", c.tableName, err)
			}

			records = append(records, record)
		}

		if output.LastEvaluatedKey == nil {
			break
		}

		queryInput.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return records, nil
}

func itemKey(initiativeID, identifiers string) map[string]dynamodbtypes.AttributeValue {
	return map[string]dynamodbtypes.AttributeValue{
		initiative.PartitionKey: &dynamodbtypes.AttributeValueMemberS{Value: initiativeID},
		initiative.SortKey:      &dynamodbtypes.AttributeValueMemberS{Value: identifiers},
	}
}

// classify maps an AWS SDK failure onto the store error taxonomy.
// Throttling and server faults are transient; other request faults
// indicate a malformed request. Transport errors with no API response are
// treated as transient.
func classify(err error) error {
	var throughput *dynamodbtypes.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	var limit *dynamodbtypes.RequestLimitExceeded
	if errors.As(err, &limit) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient {
		return fmt.Errorf("%w: %w", store.ErrRejected, err)
	}

	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}

func verifySecondaryIndex(table *dynamodbtypes.TableDescription, indexName, partitionKey, sortKey string) error {
	for _, index := range table.GlobalSecondaryIndexes {
		if aws.ToString(index.IndexName) == indexName {
			if aws.ToString(index.KeySchema[0].AttributeName) != partitionKey {
				return fmt.Errorf("global secondary index %s has partition key %s, expected %s", indexName, aws.ToString(index.KeySchema[0].AttributeName), partitionKey)
			}

			if len(index.KeySchema) != 2 {
				return fmt.Errorf("global secondary index %s has a simple primary key, expected a composite primary key", indexName)
			}

			if aws.ToString(index.KeySchema[1].AttributeName) != sortKey {
				return fmt.Errorf("global secondary index %s has sort key %s, expected %s", indexName, aws.ToString(index.KeySchema[1].AttributeName), sortKey)
			}

			if index.IndexStatus != dynamodbtypes.IndexStatusActive {
				return fmt.Errorf("global secondary index %s is not active (status: %s)", indexName, index.IndexStatus)
			}

			if index.Projection.ProjectionType != dynamodbtypes.ProjectionTypeAll {
				return fmt.Errorf("global secondary index %s has projection type %s, expected %s", indexName, index.Projection.ProjectionType, dynamodbtypes.ProjectionTypeAll)
			}

			return nil
		}
	}

	return fmt.Errorf("global secondary index %s not found", indexName)
}
