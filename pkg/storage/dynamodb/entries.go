package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
)

// VoidEntry claims entryID with a VOID entry so a debit under that id can no longer be written.
func (s *Store) VoidEntry(ctx context.Context, entryID, settlementID string) error {
	item, err := attributevalue.MarshalMap(entryItem{
		EntryID:      entryID,
		Kind:         models.VOID,
		SettlementID: settlementID,
		Description:  fmt.Sprintf("Void for settlement %s", settlementID),
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal void entry: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.LedgerTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("entry %s: %w", entryID, storage.ErrEntryExists)
		}
		return fmt.Errorf("failed to write void entry: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

// GetEntry retrieves a ledger entry by its id.
func (s *Store) GetEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.LedgerTableName),
		Key:            entryKey(entryID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry from DynamoDB: %w: %w", storage.ErrUnavailable, err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, storage.ErrNotFound)
	}

	var item entryItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}
	return item.toModel(), nil
}
