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

// RestaurantStore reads immutable restaurant reference data keyed by
// restaurant_id.
type RestaurantStore struct {
	api       dynamodbAPI
	tableName string
}

func NewRestaurantStore(api dynamodbAPI, tableName string) (*RestaurantStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &RestaurantStore{api: api, tableName: tableName}, nil
}

// GetRestaurant returns the record for id, or nil when no such item exists.
func (s *RestaurantStore) GetRestaurant(ctx context.Context, id string) (*domain.RestaurantRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("repository: restaurant id is required")
	}

	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"restaurant_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: GetRestaurant get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, nil
	}

	rec, err := itemToRestaurant(out.Item)
	if err != nil {
		return nil, fmt.Errorf("repository: GetRestaurant decode: %w", err)
	}
	return rec, nil
}

func itemToRestaurant(item map[string]types.AttributeValue) (*domain.RestaurantRecord, error) {
	id, err := strAttr(item, "restaurant_id")
	if err != nil {
		return nil, err
	}
	name, err := strAttr(item, "name")
	if err != nil {
		return nil, err
	}
	// Everything else decodes leniently; the table predates this service and
	// stores numeric fields as strings.
	return &domain.RestaurantRecord{
		ID:          id,
		Name:        name,
		Cuisine:     strAttrLenient(item, "cuisine"),
		Rating:      floatAttrLenient(item, "rating"),
		ReviewCount: intAttrLenient(item, "review_count"),
		Address:     strAttrLenient(item, "address"),
		ZipCode:     strAttrLenient(item, "zip_code"),
	}, nil
}
