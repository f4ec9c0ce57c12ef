package storage

import (
	"context"

	"github.com/chris/wallet-kiosk/pkg/models"
)

// CustomerReader defines the interface for looking up wallet holders.
type CustomerReader interface {
	// GetCustomer retrieves a customer by national id.
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)

	// GetCustomerByCredential resolves a scanned QR credential to its customer.
	GetCustomerByCredential(ctx context.Context, credential string) (*models.Customer, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]models.Customer, error)

	// SearchCustomers returns customers whose id or name contains key, case-insensitively.
	SearchCustomers(ctx context.Context, key string) ([]models.Customer, error)
}

// CustomerStore defines the interface for managing wallet holders.
type CustomerStore interface {
	CustomerReader

	// CreateCustomer registers a customer. It fails with ErrAlreadyExists if the id is taken.
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
}
