package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink/api/internal/domain"
)

// DonorRepo provides typed DynamoDB operations for the donor profiles table.
// PK: username (one profile per donor).
type DonorRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDonorRepo(client *dynamodb.Client, tableName string) *DonorRepo {
	return &DonorRepo{client: client, tableName: tableName}
}

func (r *DonorRepo) Put(ctx context.Context, p *domain.DonorProfile) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal donor profile: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DonorRepo) Get(ctx context.Context, username string) (*domain.DonorProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("username", username),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("donor profile %q: %w", username, domain.ErrNotFound)
	}
	var p domain.DonorProfile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByBloodGroup queries the blood_group-index GSI for available donors.
func (r *DonorRepo) ListByBloodGroup(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("blood_group-index"),
		KeyConditionExpression:   aws.String("#bg = :bg"),
		FilterExpression:         aws.String("available = :a"),
		ExpressionAttributeNames: map[string]string{"#bg": "blood_group"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":bg": &types.AttributeValueMemberS{Value: bloodGroup},
			":a":  &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var profiles []domain.DonorProfile
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
