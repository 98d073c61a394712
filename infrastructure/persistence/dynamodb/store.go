// Package dynamodb implements the repositories on a single DynamoDB table.
//
// Layout (PK / SK):
//
//	USER#<u>                / CONV#<id>               conversation (ResponseCount, Version)
//	USER#<u>#CONV#<id>      / MSG#<time>#<id>         message
//	USER#<u>#CONV#<id>      / TAGLINK#<tag>           conversation tag link
//	USER#<u>#CONV#<id>      / TAGSET                  conversation tag set version
//	USER#<u>                / NOTE#<id>               note
//	USER#<u>#NOTE#<id>      / TAGLINK#<tag>           note tag link
//	USER#<u>#NOTE#<id>      / TAGSET                  note tag set version
//	USER#<u>                / TAG#<id>                tag
//	USER#<u>                / FOLDER#<id>             folder
//	USER#<u>                / SETTINGS                user settings
//
// Tag links also carry GSI1PK = USER#<u>#TAG#<tag> so a tag delete can find them.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "tweetbloom/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const (
	entityConversation = "CONVERSATION"
	entityMessage      = "MESSAGE"
	entityNote         = "NOTE"
	entityTag          = "TAG"
	entityTagLink      = "TAGLINK"
	entityTagSet       = "TAGSET"
	entityFolder       = "FOLDER"
	entitySettings     = "SETTINGS"

	gsi1 = "GSI1"

	// batchWriteLimit and transactLimit are DynamoDB service limits
	batchWriteLimit = 25
	transactLimit   = 100
	maxBatchRetries = 3

	// sortableTime keeps message sort keys in chronological order
	sortableTime = "2006-01-02T15:04:05.000000000Z"
)

// Client is the subset of the DynamoDB API the store uses
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store holds the client and table shared by the repositories
type Store struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

// NewStore creates a Store for tableName
func NewStore(client Client, tableName string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Ping checks that the table is reachable
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	return err
}

func userPK(userID string) string { return "USER#" + userID }

func conversationPK(userID, id string) string { return fmt.Sprintf("USER#%s#CONV#%s", userID, id) }

func notePK(userID, id string) string { return fmt.Sprintf("USER#%s#NOTE#%s", userID, id) }

func tagIndexPK(userID, tagID string) string { return fmt.Sprintf("USER#%s#TAG#%s", userID, tagID) }

func messageSK(t time.Time, id string) string {
	return fmt.Sprintf("MSG#%s#%s", t.UTC().Format(sortableTime), id)
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// getItem fetches one item; a missing item maps to NotFound
func (s *Store) getItem(ctx context.Context, pk, sk, resource string, consistent bool) (map[string]types.AttributeValue, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            key(pk, sk),
		ConsistentRead: aws.Bool(consistent),
	})
	if err != nil {
		return nil, s.mapError("get "+resource, resource, err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(resource)
	}
	return out.Item, nil
}

// query runs a partition query across every page
func (s *Store) query(ctx context.Context, keyCond expression.KeyConditionBuilder, filter *expression.ConditionBuilder, index string) ([]map[string]types.AttributeValue, error) {
	input, err := s.queryInput(keyCond, filter)
	if err != nil {
		return nil, err
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}
	return s.paginate(ctx, input)
}

// queryPrefix returns every item of pk whose sort key starts with prefix
func (s *Store) queryPrefix(ctx context.Context, pk, prefix string, filter *expression.ConditionBuilder) ([]map[string]types.AttributeValue, error) {
	return s.query(ctx, prefixKey(pk, prefix), filter, "")
}

// consistentQueryPrefix is queryPrefix with strongly consistent reads
func (s *Store) consistentQueryPrefix(ctx context.Context, pk, prefix string) ([]map[string]types.AttributeValue, error) {
	input, err := s.queryInput(prefixKey(pk, prefix), nil)
	if err != nil {
		return nil, err
	}
	input.ConsistentRead = aws.Bool(true)
	return s.paginate(ctx, input)
}

func (s *Store) queryInput(keyCond expression.KeyConditionBuilder, filter *expression.ConditionBuilder) (*dynamodb.QueryInput, error) {
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

func (s *Store) paginate(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func prefixKey(pk, prefix string) expression.KeyConditionBuilder {
	keyCond := expression.Key("PK").Equal(expression.Value(pk))
	if prefix != "" {
		keyCond = keyCond.And(expression.Key("SK").BeginsWith(prefix))
	}
	return keyCond
}

// putNew writes an item that must not exist yet
func (s *Store) putNew(ctx context.Context, item map[string]types.AttributeValue, resource string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return pkgerrors.NewConflictError(resource + " already exists")
	}
	return s.mapError("create "+resource, resource, err)
}

// putExisting replaces an item that must already exist
func (s *Store) putExisting(ctx context.Context, item map[string]types.AttributeValue, resource string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	return s.mapError("update "+resource, resource, err)
}

// batchDelete removes keys in chunks, retrying unprocessed requests
func (s *Store) batchDelete(ctx context.Context, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, k := range keys[start:end] {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k}})
		}

		for retry := 0; len(requests) > 0; retry++ {
			if retry == maxBatchRetries {
				return fmt.Errorf("batch delete left %d unprocessed items", len(requests))
			}
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{s.tableName: requests},
			})
			if err != nil {
				return err
			}
			requests = out.UnprocessedItems[s.tableName]
			if len(requests) == 0 {
				break
			}

			backoff := time.Duration(retry*retry+1) * 100 * time.Millisecond
			s.logger.Debug("Retrying unprocessed deletes",
				zap.Int("unprocessedCount", len(requests)),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil
}

// itemKey extracts the primary key of a stored item
func itemKey(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]}
}

// mapError turns SDK errors into application errors. A failed condition on
// an existing-item write means the item is gone.
func (s *Store) mapError(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if pkgerrors.IsAppError(err) {
		return err
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return pkgerrors.NewNotFoundError(resource)
	}

	appErr := pkgerrors.NewDatabaseError(op, err)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		appErr = appErr.WithDetails(map[string]interface{}{"awsErrorCode": apiErr.ErrorCode()})
	}
	s.logger.Error("DynamoDB operation failed", zap.String("operation", op), zap.Error(err))
	return appErr
}
