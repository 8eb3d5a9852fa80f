package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink/api/internal/domain"
)

// RequestRepo provides typed DynamoDB operations for the blood requests table.
// PK: request_id. GSIs: requester-index, status-index.
type RequestRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRequestRepo(client *dynamodb.Client, tableName string) *RequestRepo {
	return &RequestRepo{client: client, tableName: tableName}
}

func (r *RequestRepo) Put(ctx context.Context, br *domain.BloodRequest) error {
	item, err := attributevalue.MarshalMap(br)
	if err != nil {
		return fmt.Errorf("marshal blood request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RequestRepo) Get(ctx context.Context, requestID string) (*domain.BloodRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("request_id", requestID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("blood request %q: %w", requestID, domain.ErrNotFound)
	}
	var br domain.BloodRequest
	if err := attributevalue.UnmarshalMap(out.Item, &br); err != nil {
		return nil, err
	}
	return &br, nil
}

// ListByRequester queries the requester-index GSI for one user's requests.
func (r *RequestRepo) ListByRequester(ctx context.Context, username string) ([]domain.BloodRequest, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("requester-index"),
		KeyConditionExpression:   aws.String("#rq = :u"),
		ExpressionAttributeNames: map[string]string{"#rq": "requester"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: username},
		},
	})
}

// ListOpen queries the status-index GSI for open requests, optionally
// filtered by blood group.
func (r *RequestRepo) ListOpen(ctx context.Context, bloodGroup string) ([]domain.BloodRequest, error) {
	input := &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("status-index"),
		KeyConditionExpression:   aws.String("#st = :s"),
		ExpressionAttributeNames: map[string]string{"#st": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: domain.RequestStatusOpen},
		},
	}
	if bloodGroup != "" {
		input.FilterExpression = aws.String("blood_group = :bg")
		input.ExpressionAttributeValues[":bg"] = &types.AttributeValueMemberS{Value: bloodGroup}
	}
	return r.query(ctx, input)
}

// Close transitions a request from open to closed. The condition makes the
// transition fire at most once; a second close fails with ErrConflict.
func (r *RequestRepo) Close(ctx context.Context, requestID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("request_id", requestID),
		UpdateExpression:         aws.String("SET #st = :closed, updated_at = :t"),
		ConditionExpression:      aws.String("#st = :open"),
		ExpressionAttributeNames: map[string]string{"#st": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":closed": &types.AttributeValueMemberS{Value: domain.RequestStatusClosed},
			":open":   &types.AttributeValueMemberS{Value: domain.RequestStatusOpen},
			":t":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if condFailed(err) {
		return fmt.Errorf("request already closed: %w", domain.ErrConflict)
	}
	return err
}

func (r *RequestRepo) query(ctx context.Context, input *dynamodb.QueryInput) ([]domain.BloodRequest, error) {
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var reqs []domain.BloodRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
