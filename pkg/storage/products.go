package storage

import (
	"context"

	"github.com/chris/wallet-kiosk/pkg/models"
)

// ProductReader defines the interface for reading catalog data.
type ProductReader interface {
	// GetProduct retrieves a product by its ID.
	GetProduct(ctx context.Context, id int64) (*models.Product, error)

	// ListProducts retrieves the full catalog ordered by ID.
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ProductStore defines the interface for managing the catalog.
type ProductStore interface {
	ProductReader

	// CreateProduct adds a product. A zero ID is assigned by the store.
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}
