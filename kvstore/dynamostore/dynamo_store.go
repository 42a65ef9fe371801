// Package dynamostore implements kvstore.Store on a DynamoDB table, for
// serverless deployments that already live on AWS but do not want S3 listing
// latency on the cache read path.
package dynamostore

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/weo-soft/poeData-sub000/kvstore"
)

// Attribute names in the backing table. The table uses a composite primary
// key: partition key "ns" (namespace) and sort key "k" (cache key), with the
// value stored as binary attribute "v".
const (
	attrNamespace = "ns"
	attrKey       = "k"
	attrValue     = "v"
)

// Client is the interface for DynamoDB operations. *dynamodb.Client
// satisfies it; tests substitute a mock.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements kvstore.Store backed by a DynamoDB table.
//
// Writes are unconditional: concurrent Puts for the same key are
// last-write-wins, which is safe because both derive from identical inputs.
type Store struct {
	client    Client
	tableName string
	namespace string
}

var _ kvstore.Store = (*Store)(nil)

// New creates a DynamoDB store.
// namespace is the partition key value, so several caches can share a table.
func New(client Client, tableName, namespace string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		namespace: namespace,
	}
}

func (s *Store) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrNamespace: &types.AttributeValueMemberS{Value: s.namespace},
		attrKey:       &types.AttributeValueMemberS{Value: key},
	}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get %q: %w", key, err)
	}
	if resp.Item == nil {
		return nil, kvstore.ErrNotFound
	}

	value, ok := resp.Item[attrValue].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("dynamodb get %q: missing binary %q attribute", key, attrValue)
	}
	return value.Value, nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrNamespace: &types.AttributeValueMemberS{Value: s.namespace},
			attrKey:       &types.AttributeValueMemberS{Value: key},
			attrValue:     &types.AttributeValueMemberB{Value: value},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb put %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete %q: %w", key, err)
	}
	return nil
}

// List returns all keys with the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keyCondition := "ns = :ns"
	values := map[string]types.AttributeValue{
		":ns": &types.AttributeValueMemberS{Value: s.namespace},
	}
	if prefix != "" {
		keyCondition += " AND begins_with(k, :prefix)"
		values[":prefix"] = &types.AttributeValueMemberS{Value: prefix}
	}

	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    aws.String(keyCondition),
			ExpressionAttributeValues: values,
			ProjectionExpression:      aws.String(attrKey),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb query prefix %q: %w", prefix, err)
		}
		for _, item := range resp.Items {
			if k, ok := item[attrKey].(*types.AttributeValueMemberS); ok {
				keys = append(keys, k.Value)
			}
		}
		if resp.LastEvaluatedKey == nil {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; the AWS SDK client holds no per-store resources.
func (s *Store) Close() error {
	return nil
}
