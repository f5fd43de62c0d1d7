package awsx

import (
	"context"
	"fmt"

	"github.com/Lllllllleong/ocrworker/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoPutAPI is the subset of *dynamodb.Client the status store uses.
type DynamoPutAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStatusStore writes status records keyed by DocumentId.
type DynamoStatusStore struct {
	client DynamoPutAPI
	table  string
}

func NewDynamoStatusStore(client DynamoPutAPI, table string) *DynamoStatusStore {
	return &DynamoStatusStore{client: client, table: table}
}

// PutStatus replaces the whole item for rec.DocumentID.
func (s *DynamoStatusStore) PutStatus(ctx context.Context, rec *models.StatusRecord) error {
	item, err := MarshalStatus(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put status item %q into %s: %w", rec.DocumentID, s.table, err)
	}
	return nil
}

// MarshalStatus converts a record into a DynamoDB item. A set but empty
// TextPreview is stored as an empty string.
func MarshalStatus(rec *models.StatusRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status record: %w", err)
	}
	return item, nil
}
