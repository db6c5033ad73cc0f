package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/tung362/votecatalog/logging"
)

type SnapshotStorage interface {
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	Put(ctx context.Context, snapshot *Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

type DynamoSnapshotStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoSnapshotStorage) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": sessionID})
	if err != nil {
		logging.Logger().Errorf("SNAPSHOT: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Logger().Errorf("SNAPSHOT: get failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var snapshot *Snapshot
	if err := attributevalue.UnmarshalMap(out.Item, &snapshot); err != nil {
		logging.Logger().Errorf("SNAPSHOT: failed to unmarshal result: %v", err)
		return nil, err
	}
	return snapshot, nil
}

// Put replaces the session's snapshot.
func (s *DynamoSnapshotStorage) Put(ctx context.Context, snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	item, err := attributevalue.MarshalMap(snapshot)
	if err != nil {
		logging.Logger().Errorf("SNAPSHOT: failed to marshal snapshot: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Logger().Errorf("SNAPSHOT: put failed: %v", err)
		return err
	}
	return nil
}

func (s *DynamoSnapshotStorage) Delete(ctx context.Context, sessionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": sessionID})
	if err != nil {
		logging.Logger().Errorf("SNAPSHOT: failed to marshal key: %v", err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &s.TableName,
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Logger().Errorf("SNAPSHOT: delete failed: %v", err)
		return err
	}
	return nil
}
