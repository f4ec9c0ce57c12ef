package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/chris/wallet-kiosk/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVoidEntry(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			kind := in.Item["kind"].(*types.AttributeValueMemberS).Value
			return *in.TableName == "ledger" && kind == string(models.VOID)
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "customers", "ledger")
		err := store.VoidEntry(context.Background(), "settlement#abc", "abc")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Entry Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "customers", "ledger")
		err := store.VoidEntry(context.Background(), "settlement#abc", "abc")

		assert.ErrorIs(t, err, storage.ErrEntryExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "customers", "ledger")
		err := store.VoidEntry(context.Background(), "settlement#abc", "abc")

		assert.ErrorIs(t, err, storage.ErrUnavailable)
		assert.Contains(t, err.Error(), "failed to write void entry")
		mockClient.AssertExpectations(t)
	})
}

func TestGetEntry(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		item, _ := attributevalue.MarshalMap(entryItem{
			EntryID:      "settlement#abc",
			CustomerID:   42,
			Kind:         models.DEBIT,
			Amount:       amount{decimal.RequireFromString("30.00")},
			BalanceAfter: amount{decimal.RequireFromString("70.25")},
			SettlementID: "abc",
		})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		store := New(mockClient, "customers", "ledger")
		entry, err := store.GetEntry(context.Background(), "settlement#abc")

		require.NoError(t, err)
		assert.Equal(t, models.DEBIT, entry.Kind)
		assert.Equal(t, int64(42), entry.CustomerID)
		assert.Equal(t, "70.25", entry.BalanceAfter.String())
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "customers", "ledger")
		_, err := store.GetEntry(context.Background(), "settlement#abc")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}
