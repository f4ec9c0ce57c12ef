// Package dynamodb implements the wallet ledger store on AWS DynamoDB.
//
// Customers live in one table keyed by customer_id with a qr_credential-index
// GSI. Every balance movement is written to the ledger table in the same
// TransactWriteItems call as the balance update, conditioned on the entry id
// being unused, which makes each entry id apply at most once.
package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/wallet-kiosk/pkg/storage"
)

const (
	credentialIndex    = "qr_credential-index"
	maxBalanceAttempts = 3
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements storage.LedgerStore using AWS DynamoDB.
type Store struct {
	Client             DynamoDBAPI
	CustomersTableName string
	LedgerTableName    string
}

// New creates a new Store.
func New(client DynamoDBAPI, customersTable, ledgerTable string) *Store {
	return &Store{
		Client:             client,
		CustomersTableName: customersTable,
		LedgerTableName:    ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.LedgerStore = (*Store)(nil)

// conditionFailed reports whether the i-th item of a canceled transaction failed its condition.
func conditionFailed(err *types.TransactionCanceledException, i int) bool {
	return reasonCode(err, i) == "ConditionalCheckFailed"
}

func reasonCode(err *types.TransactionCanceledException, i int) string {
	if i >= len(err.CancellationReasons) || err.CancellationReasons[i].Code == nil {
		return ""
	}
	return *err.CancellationReasons[i].Code
}

func isConditionalCheckFailed(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	return errors.As(err, &condCheckFailed)
}
