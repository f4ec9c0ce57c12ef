package dynamodb

import (
	"context"
	"fmt"
	"sort"
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

// CreateCustomer creates a new customer record in DynamoDB.
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(newCustomerItem(customer))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.CustomersTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(customer_id)"), // Prevent overwriting existing customers.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("customer %d: %w", customer.ID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create customer in DynamoDB: %w: %w", storage.ErrUnavailable, err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by national id.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	item, err := s.getCustomerItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) getCustomerItem(ctx context.Context, id int64) (*customerItem, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.CustomersTableName),
		Key:            customerKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get customer from DynamoDB: %w: %w", storage.ErrUnavailable, err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("customer %d: %w", id, storage.ErrNotFound)
	}

	var item customerItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	return &item, nil
}

// GetCustomerByCredential resolves a QR credential through the qr_credential-index GSI.
func (s *Store) GetCustomerByCredential(ctx context.Context, credential string) (*models.Customer, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.CustomersTableName),
		IndexName:              aws.String(credentialIndex),
		KeyConditionExpression: aws.String("qr_credential = :credential"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":credential": &types.AttributeValueMemberS{Value: credential},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query customer by credential: %w: %w", storage.ErrUnavailable, err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("customer with credential: %w", storage.ErrNotFound)
	}

	var item customerItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	return item.toModel(), nil
}

// ListCustomers retrieves all customers ordered by id.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.scanCustomers(ctx, func(customerItem) bool { return true })
}

// SearchCustomers returns customers whose id or name contains key.
// DynamoDB's contains() is case-sensitive and does not apply to numbers, so
// the match runs on the scanned items.
func (s *Store) SearchCustomers(ctx context.Context, key string) ([]models.Customer, error) {
	key = strings.ToLower(key)
	return s.scanCustomers(ctx, func(item customerItem) bool {
		return strings.Contains(strconv.FormatInt(item.CustomerID, 10), key) ||
			strings.Contains(strings.ToLower(item.Name), key)
	})
}

func (s *Store) scanCustomers(ctx context.Context, keep func(customerItem) bool) ([]models.Customer, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.CustomersTableName),
	}

	customers := []models.Customer{}
	for {
		page, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customers table: %w: %w", storage.ErrUnavailable, err)
		}

		var items []customerItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal customers: %w", err)
		}
		for _, item := range items {
			if keep(item) {
				customers = append(customers, *item.toModel())
			}
		}

		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}
