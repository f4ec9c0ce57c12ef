package dynamodb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/shopspring/decimal"
)

// amount stores a decimal as a DynamoDB number without float rounding.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.Decimal.String()}, nil
}

func (a *amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("expected number attribute for amount, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("failed to parse amount %q: %w", n.Value, err)
	}
	a.Decimal = d
	return nil
}

type customerItem struct {
	CustomerID   int64     `dynamodbav:"customer_id"`
	Name         string    `dynamodbav:"name"`
	Email        string    `dynamodbav:"email"`
	Phone        string    `dynamodbav:"phone"`
	QRCredential string    `dynamodbav:"qr_credential"`
	Balance      amount    `dynamodbav:"balance"`
	Version      int64     `dynamodbav:"version"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
}

func newCustomerItem(c *models.Customer) customerItem {
	return customerItem{
		CustomerID:   c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		QRCredential: c.QRCredential,
		Balance:      amount{c.Balance},
		Version:      1,
		CreatedAt:    c.CreatedAt,
	}
}

func (i customerItem) toModel() *models.Customer {
	return &models.Customer{
		ID:           i.CustomerID,
		Name:         i.Name,
		Email:        i.Email,
		Phone:        i.Phone,
		QRCredential: i.QRCredential,
		Balance:      i.Balance.Decimal,
		CreatedAt:    i.CreatedAt,
	}
}

type entryItem struct {
	EntryID      string                 `dynamodbav:"entry_id"`
	CustomerID   int64                  `dynamodbav:"customer_id,omitempty"`
	Kind         models.LedgerEntryKind `dynamodbav:"kind"`
	Amount       amount                 `dynamodbav:"amount"`
	BalanceAfter amount                 `dynamodbav:"balance_after"`
	SettlementID string                 `dynamodbav:"settlement_id,omitempty"`
	Description  string                 `dynamodbav:"description"`
	Timestamp    time.Time              `dynamodbav:"timestamp"`
}

func (i entryItem) toModel() *models.LedgerEntry {
	return &models.LedgerEntry{
		EntryID:      i.EntryID,
		CustomerID:   i.CustomerID,
		Kind:         i.Kind,
		Amount:       i.Amount.Decimal,
		BalanceAfter: i.BalanceAfter.Decimal,
		SettlementID: i.SettlementID,
		Description:  i.Description,
		Timestamp:    i.Timestamp,
	}
}

func customerKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"customer_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func entryKey(entryID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"entry_id": &types.AttributeValueMemberS{Value: entryID},
	}
}
