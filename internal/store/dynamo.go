package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/imrishuroy/go-pizza-cartflow/internal/aws"
)

// keyAttribute is the partition key of every record table.
const keyAttribute = "id"

// DynamoStore keeps each collection in its own DynamoDB table.
type DynamoStore struct {
	client aws.DynamoDBAPI
	tables map[string]string
}

// NewDynamoStore returns a store using tables to map collection -> table name.
// Collections missing from tables use the collection name as the table name.
func NewDynamoStore(client aws.DynamoDBAPI, tables map[string]string) *DynamoStore {
	return &DynamoStore{
		client: client,
		tables: tables,
	}
}

func (s *DynamoStore) tableFor(collection string) string {
	if t, ok := s.tables[collection]; ok && t != "" {
		return t
	}
	return collection
}

// Create puts record under id with attribute_not_exists(id).
func (s *DynamoStore) Create(ctx context.Context, collection, id string, record interface{}) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	item[keyAttribute] = &types.AttributeValueMemberS{Value: id}

	table := s.tableFor(collection)
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(" + keyAttribute + ")"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrExists
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Read fetches id from the collection table into out.
func (s *DynamoStore) Read(ctx context.Context, collection, id string, out interface{}) error {
	table := s.tableFor(collection)
	res, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &table,
		Key: map[string]types.AttributeValue{
			keyAttribute: &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
