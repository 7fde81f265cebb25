package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamodbAPI is the minimal DynamoDB interface required by the stores.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

// rawAttr returns the textual value of a string or number attribute. The
// provisioning job wrote every restaurant field as a string, so numeric
// fields may arrive as either member type.
func rawAttr(item map[string]types.AttributeValue, key string) (string, bool) {
	v, ok := item[key]
	if !ok {
		return "", false
	}
	switch m := v.(type) {
	case *types.AttributeValueMemberS:
		return m.Value, true
	case *types.AttributeValueMemberN:
		return m.Value, true
	}
	return "", false
}

func intAttrLenient(item map[string]types.AttributeValue, key string) int {
	raw, ok := rawAttr(item, key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func floatAttrLenient(item map[string]types.AttributeValue, key string) float64 {
	raw, ok := rawAttr(item, key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func strAttrLenient(item map[string]types.AttributeValue, key string) string {
	v, _ := rawAttr(item, key)
	return v
}
