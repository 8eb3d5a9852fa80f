package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink/api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// Username is the partition key, which makes the table itself the final
// arbiter of the username uniqueness invariant: Insert is a conditional put
// and a concurrent duplicate surfaces as ErrConflict regardless of any prior
// read the caller performed.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Insert persists a new user record. Fails with domain.ErrConflict when a
// record with the same username already exists.
func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	if condFailed(err) {
		return fmt.Errorf("username already exists: %w", domain.ErrConflict)
	}
	return err
}

// Get fetches a user by username. Fails with domain.ErrNotFound when no
// record exists.
func (r *UserRepo) Get(ctx context.Context, username string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("username", username),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetOTP rotates the pending code and its expiry on an existing record.
// Any previously stored code becomes invalid the moment this write lands.
func (r *UserRepo) SetOTP(ctx context.Context, username, code string, expiresAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("username", username),
		UpdateExpression:    aws.String("SET otp = :c, otp_expiry = :e, updated_at = :t"),
		ConditionExpression: aws.String("attribute_exists(username)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: code},
			":e": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)},
			":t": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if condFailed(err) {
		return fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	return err
}

// MarkVerified flips the record to verified and removes the OTP fields in a
// single write, conditioned on the stored code still being the one that was
// checked. If a concurrent resend rotated the code first, the condition fails
// and the caller treats the submitted code as invalid (last write wins).
func (r *UserRepo) MarkVerified(ctx context.Context, username, code string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("username", username),
		UpdateExpression:    aws.String("SET is_verified = :v, updated_at = :t REMOVE otp, otp_expiry"),
		ConditionExpression: aws.String("otp = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberBOOL{Value: true},
			":t": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":c": &types.AttributeValueMemberS{Value: code},
		},
	})
	if condFailed(err) {
		return fmt.Errorf("otp no longer valid: %w", domain.ErrInvalidCredential)
	}
	return err
}

// Disable soft-deletes an account. Disabled accounts fail login.
func (r *UserRepo) Disable(ctx context.Context, username string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"enable":     false,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("username", username),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// ScanPage returns a page of user records for the admin listing.
// cursor is a base64-encoded username used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *UserRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		username, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrValidation)
		}
		input.ExclusiveStartKey = strKey("username", username)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var users []domain.User
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &users); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["username"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return users, nextCursor, nil
}

func encodeCursor(username string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(username))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
