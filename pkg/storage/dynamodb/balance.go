package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
)

// Debit decrements a customer's balance and records a DEBIT ledger entry atomically.
func (s *Store) Debit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error) {
	return s.moveBalance(ctx, movement, models.DEBIT)
}

// Credit increments a customer's balance and records a CREDIT ledger entry atomically.
func (s *Store) Credit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error) {
	return s.moveBalance(ctx, movement, models.CREDIT)
}

// moveBalance applies the movement with optimistic locking on the customer's
// version. A lost race re-reads the customer and retries; the balance
// precondition is evaluated again on every attempt.
func (s *Store) moveBalance(ctx context.Context, movement models.BalanceMovement, kind models.LedgerEntryKind) (*models.LedgerEntry, error) {
	op := strings.ToLower(string(kind))

	for attempt := 1; attempt <= maxBalanceAttempts; attempt++ {
		// 1. Get the current state of the customer for optimistic locking.
		customer, err := s.getCustomerItem(ctx, movement.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer for %s: %w", op, err)
		}

		newBalance := customer.Balance.Add(movement.Amount)
		condition := "version = :version"
		if kind == models.DEBIT {
			if customer.Balance.LessThan(movement.Amount) {
				return nil, fmt.Errorf("customer %d: %w", movement.CustomerID, storage.ErrInsufficientFunds)
			}
			newBalance = customer.Balance.Sub(movement.Amount)
			condition = "version = :version AND balance >= :amount"
		}

		// 2. Prepare the ledger entry.
		entry := entryItem{
			EntryID:      movement.EntryID,
			CustomerID:   movement.CustomerID,
			Kind:         kind,
			Amount:       amount{movement.Amount},
			BalanceAfter: amount{newBalance},
			SettlementID: movement.SettlementID,
			Description:  movement.Description,
			Timestamp:    time.Now().UTC(),
		}
		entryAV, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s entry: %w", op, err)
		}
		amountAV, err := attributevalue.Marshal(amount{movement.Amount})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal amount: %w", err)
		}
		newBalanceAV, err := attributevalue.Marshal(amount{newBalance})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal balance: %w", err)
		}

		values := map[string]types.AttributeValue{
			":new_balance": newBalanceAV,
			":version":     &types.AttributeValueMemberN{Value: strconv.FormatInt(customer.Version, 10)},
			":inc":         &types.AttributeValueMemberN{Value: "1"},
		}
		if kind == models.DEBIT {
			values[":amount"] = amountAV
		}

		// 3. Update the balance and write the entry in one transaction.
		input := &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Update: &types.Update{
						TableName:                 aws.String(s.CustomersTableName),
						Key:                       customerKey(movement.CustomerID),
						UpdateExpression:          aws.String("SET balance = :new_balance, version = version + :inc"),
						ConditionExpression:       aws.String(condition),
						ExpressionAttributeValues: values,
					},
				},
				{
					Put: &types.Put{
						TableName:           aws.String(s.LedgerTableName),
						Item:                entryAV,
						ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
					},
				},
			},
		}

		_, err = s.Client.TransactWriteItems(ctx, input)
		if err == nil {
			return entry.toModel(), nil
		}

		var canceled *types.TransactionCanceledException
		if !errors.As(err, &canceled) {
			return nil, fmt.Errorf("failed to execute %s transaction: %w: %w", op, storage.ErrUnavailable, err)
		}
		if conditionFailed(canceled, 1) {
			return nil, fmt.Errorf("entry %s: %w", movement.EntryID, storage.ErrEntryExists)
		}
		if !conditionFailed(canceled, 0) && reasonCode(canceled, 0) != "TransactionConflict" {
			return nil, fmt.Errorf("%s transaction canceled: %w: %w", op, storage.ErrUnavailable, err)
		}
	}

	return nil, fmt.Errorf("customer %d after %d attempts: %w", movement.CustomerID, maxBalanceAttempts, storage.ErrConflict)
}
