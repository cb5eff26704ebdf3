/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// Client is the subset of the DynamoDB API used by DynamodbDataStore.
// *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore implements datastore.Backend on a single DynamoDB table.
// Every backend key is one item whose PK and SK both hold the key; the value
// is kept in the binary attribute Body.
type DynamodbDataStore struct {
	client    Client
	tableName string
}

// item is the stored shape of one key.
type item struct {
	PK   string `dynamodbav:"PK"`
	SK   string `dynamodbav:"SK"`
	Body []byte `dynamodbav:"Body"`
}

const conditionAbsent = "attribute_not_exists(PK)"

// NewDynamoDBClient initializes a DynamoDB client using AWS credentials.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	// Load the custom AWS configuration using static credentials
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewDynamodbDataStore connects to tableName with static credentials.
func NewDynamodbDataStore(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, tableName string) (*DynamodbDataStore, error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	slog.Info("DynamoDB client initialized", "table", tableName, "region", awsRegion)
	return New(client, tableName), nil
}

// New wraps an existing client.
func New(client Client, tableName string) *DynamodbDataStore {
	return &DynamodbDataStore{client: client, tableName: tableName}
}

// Get retrieves the value stored at key.
func (d *DynamodbDataStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError("key", key)
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if it.Body == nil {
		return []byte{}, nil
	}
	return it.Body, nil
}

// Put stores value at key, replacing any previous value.
func (d *DynamodbDataStore) Put(ctx context.Context, key string, value []byte) error {
	av, err := marshalItem(key, value)
	if err != nil {
		return err
	}
	if _, err := d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	}); err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// PutIfAbsent stores value at key only when no item exists there.
func (d *DynamodbDataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	av, err := marshalItem(key, value)
	if err != nil {
		return false, err
	}
	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &d.tableName,
		Item:                av,
		ConditionExpression: aws.String(conditionAbsent),
	})
	if err != nil {
		// If the condition fails, DynamoDB returns a ConditionalCheckFailedException
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return false, nil
		}
		return false, fmt.Errorf("PutItem failed: %w", err)
	}
	return true, nil
}

// Delete removes the item at key. Deleting an absent key succeeds.
func (d *DynamodbDataStore) Delete(ctx context.Context, key string) error {
	if _, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       itemKey(key),
	}); err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *DynamodbDataStore) Close() error {
	return nil
}

// itemKey builds the single-object key: PK and SK are identical.
func itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key},
		"SK": &types.AttributeValueMemberS{Value: key},
	}
}

func marshalItem(key string, value []byte) (map[string]types.AttributeValue, error) {
	if value == nil {
		value = []byte{}
	}
	av, err := attributevalue.MarshalMap(item{PK: key, SK: key, Body: value})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return av, nil
}

var (
	_ datastore.Backend           = (*DynamodbDataStore)(nil)
	_ datastore.ConditionalPutter = (*DynamodbDataStore)(nil)
	_ Client                      = (*sdk.Client)(nil)
)
