package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tung362/votecatalog/logging"
)

type ResultStorage interface {
	GetAll(ctx context.Context) ([]*PollResult, error)
	Create(ctx context.Context, results []*PollResult) error
	GetBySession(ctx context.Context, sessionID string) ([]*PollResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// ResultAPI is the part of the DynamoDB client the result storage uses.
type ResultAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// batchSize is the BatchWriteItem request limit.
const batchSize = 25

// maxBatchAttempts bounds how often unprocessed items of one batch are resent.
const maxBatchAttempts = 5

var batchRetryDelay = 50 * time.Millisecond

type DynamoResultStorage struct {
	Client    ResultAPI
	TableName string
}

func (s *DynamoResultStorage) GetAll(ctx context.Context) ([]*PollResult, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Logger().Errorf("RESULT: scan failed: %v", err)
		return nil, err
	}

	var results []*PollResult
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &results); err != nil {
		logging.Logger().Errorf("RESULT: failed to unmarshal result list: %v", err)
		return nil, err
	}
	return results, nil
}

// Create stores the results of one session. A session is written once; the
// first result already present fails the call with ErrItemAlreadyExists.
func (s *DynamoResultStorage) Create(ctx context.Context, results []*PollResult) error {
	now := time.Now().UTC()
	var writeRequests []types.WriteRequest
	for _, result := range results {
		if result.CreatedAt.IsZero() {
			result.CreatedAt = now
		}
		item, err := attributevalue.MarshalMap(result)
		if err != nil {
			logging.Logger().Errorf("RESULT: failed to marshal result: %v", err)
			return err
		}
		writeRequests = append(writeRequests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	if len(results) > 0 {
		existing, err := s.GetBySession(ctx, results[0].SessionID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrItemAlreadyExists
		}
	}
	return s.batchWrite(ctx, writeRequests)
}

func (s *DynamoResultStorage) GetBySession(ctx context.Context, sessionID string) ([]*PollResult, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :session"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":session": &types.AttributeValueMemberS{Value: sessionID},
		},
	}

	output, err := s.Client.Query(ctx, input)
	if err != nil {
		logging.Logger().Errorf("RESULT: failed to query results by session: %v", err)
		return nil, err
	}

	var results []*PollResult
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &results); err != nil {
		logging.Logger().Errorf("RESULT: failed to unmarshal results for session %s: %v", sessionID, err)
		return nil, err
	}
	return results, nil
}

func (s *DynamoResultStorage) DeleteSession(ctx context.Context, sessionID string) error {
	results, err := s.GetBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return ErrNotFound
	}

	var writeRequests []types.WriteRequest
	for _, result := range results {
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: result.SessionID},
					"SK": &types.AttributeValueMemberS{Value: result.PollKey},
				},
			},
		})
	}
	return s.batchWrite(ctx, writeRequests)
}

func (s *DynamoResultStorage) batchWrite(ctx context.Context, writeRequests []types.WriteRequest) error {
	for i := 0; i < len(writeRequests); i += batchSize {
		end := i + batchSize
		if end > len(writeRequests) {
			end = len(writeRequests)
		}
		if err := s.writeBatch(ctx, writeRequests[i:end]); err != nil {
			return err
		}
		logging.Logger().Infof("RESULT: wrote batch of %d items", end-i)
	}
	return nil
}

// writeBatch sends one batch and resends whatever DynamoDB hands back as
// unprocessed, backing off between attempts.
func (s *DynamoResultStorage) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.TableName: batch}
	for attempt := 1; ; attempt++ {
		out, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			logging.Logger().Errorf("RESULT: batch write failed: %v", err)
			return err
		}
		if out == nil || len(out.UnprocessedItems[s.TableName]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		left := len(pending[s.TableName])
		if attempt == maxBatchAttempts {
			logging.Logger().Errorf("RESULT: %d items still unprocessed after %d attempts", left, attempt)
			return fmt.Errorf("%w: %d items", ErrUnprocessedItems, left)
		}
		logging.Logger().Warnf("RESULT: %d items unprocessed, retrying (attempt %d)", left, attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(batchRetryDelay * time.Duration(attempt)):
		}
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
