package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"dining-concierge/internal/domain"
)

// PreferenceStore keeps one last-used search snapshot per email. Writes are
// unconditional overwrites; DynamoDB's per-key atomicity is the only
// coordination concurrent workers need.
type PreferenceStore struct {
	api       dynamodbAPI
	tableName string
}

func NewPreferenceStore(api dynamodbAPI, tableName string) (*PreferenceStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &PreferenceStore{api: api, tableName: tableName}, nil
}

// GetPreference returns the stored preference for email, or nil when the
// identity has no prior completed search.
func (s *PreferenceStore) GetPreference(ctx context.Context, email string) (*domain.PreferenceRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("repository: email is required")
	}

	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: GetPreference get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, nil
	}

	return &domain.PreferenceRecord{
		Email:    email,
		Location: strAttrLenient(out.Item, "location"),
		Cuisine:  strAttrLenient(out.Item, "cuisine"),
	}, nil
}

// PutPreference overwrites the snapshot for rec.Email.
func (s *PreferenceStore) PutPreference(ctx context.Context, rec domain.PreferenceRecord) error {
	if strings.TrimSpace(rec.Email) == "" {
		return errors.New("repository: PutPreference: email is required")
	}

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"email":    &types.AttributeValueMemberS{Value: rec.Email},
			"location": &types.AttributeValueMemberS{Value: rec.Location},
			"cuisine":  &types.AttributeValueMemberS{Value: rec.Cuisine},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: PutPreference: %w", err)
	}
	return nil
}
