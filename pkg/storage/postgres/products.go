package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"gorm.io/gorm"
)

// GetProduct retrieves a product by its ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product from Postgres: %w", err)
	}
	return &product, nil
}

// ListProducts retrieves the catalog ordered by ID.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products from Postgres: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product. A zero ID is assigned by the database.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product %d: %w", product.ID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create product in Postgres: %w", err)
	}
	return product, nil
}
