// Package directory serves the product catalog and the customer registry.
package directory

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxRegisterAttempts = 3
	minGeneratedID      = 1_000_000_000
	generatedIDSpan     = 9_000_000_000
)

// ProductCache caches the catalog listing.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// Service serves catalog and customer lookups and registrations.
type Service struct {
	products  storage.ProductStore
	customers storage.CustomerStore
	cache     ProductCache
	logger    *zap.Logger
	newID     func() int64
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches the product listing.
func WithCache(c ProductCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger; nil disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// NewService creates a new directory Service.
func NewService(products storage.ProductStore, customers storage.CustomerStore, opts ...Option) *Service {
	s := &Service{
		products:  products,
		customers: customers,
		logger:    zap.NewNop(),
		newID:     randomCustomerID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProduct is a product to add to the catalog.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
}

// NewCustomer is a customer to register. A nil ID is generated.
type NewCustomer struct {
	ID    *int64
	Name  string
	Email string
	Phone string
}

// ListProducts returns the catalog, from the cache when possible.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		products, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			s.logger.Warn("failed to read product cache", zap.Error(err))
		}
		if ok {
			return products, nil
		}
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, errs.New(errs.KindStoreUnavailable, "inventory store unavailable", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}
	return products, nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.New(errs.KindProductNotFound, fmt.Sprintf("product %d not found", id), err)
		}
		return nil, errs.New(errs.KindStoreUnavailable, "inventory store unavailable", err)
	}
	return product, nil
}

// AddProduct validates and adds a product, then drops the cached listing.
func (s *Service) AddProduct(ctx context.Context, p NewProduct) (*models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	switch {
	case p.Name == "":
		return nil, errs.Newf(errs.KindValidation, "product name is required")
	case p.Description == "":
		return nil, errs.Newf(errs.KindValidation, "product description is required")
	case !p.Price.IsPositive():
		return nil, errs.Newf(errs.KindValidation, "product price must be positive")
	case !p.Price.Equal(p.Price.Round(2)):
		return nil, errs.Newf(errs.KindValidation, "product price %s has more than two decimal places", p.Price)
	case p.Stock <= 0:
		return nil, errs.Newf(errs.KindValidation, "product stock must be positive")
	}

	created, err := s.products.CreateProduct(ctx, &models.Product{
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		AvailableStock: p.Stock,
	})
	if err != nil {
		return nil, errs.New(errs.KindStoreUnavailable, "failed to add product", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Error("failed to invalidate product cache", zap.Int64("product_id", created.ID), zap.Error(err))
		}
	}
	s.logger.Info("product added", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
	return customers, nil
}

// GetCustomer returns one customer with the current balance.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.New(errs.KindCustomerNotFound, fmt.Sprintf("customer %d not found", id), err)
		}
		return nil, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
	return customer, nil
}

// SearchCustomers returns customers whose id or name contains key.
func (s *Service) SearchCustomers(ctx context.Context, key string) ([]models.Customer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errs.Newf(errs.KindValidation, "search key is required")
	}
	customers, err := s.customers.SearchCustomers(ctx, key)
	if err != nil {
		return nil, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
	return customers, nil
}

// RegisterCustomer creates a customer with a zero balance and a fresh QR
// credential. A generated id that is already taken is drawn again.
func (s *Service) RegisterCustomer(ctx context.Context, c NewCustomer) (*models.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	switch {
	case c.Name == "" || c.Email == "" || c.Phone == "":
		return nil, errs.Newf(errs.KindValidation, "name, email and phone are required")
	case c.ID != nil && *c.ID <= 0:
		return nil, errs.Newf(errs.KindValidation, "customer id must be positive")
	}

	attempts := maxRegisterAttempts
	if c.ID != nil {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		id := s.newID()
		if c.ID != nil {
			id = *c.ID
		}

		var created *models.Customer
		created, err = s.customers.CreateCustomer(ctx, &models.Customer{
			ID:           id,
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			QRCredential: uuid.NewString(),
			Balance:      decimal.Zero,
		})
		if err == nil {
			s.logger.Info("customer registered", zap.Int64("customer_id", created.ID))
			return created, nil
		}
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return nil, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
		}
	}

	if c.ID != nil {
		return nil, errs.New(errs.KindDuplicateRequest, fmt.Sprintf("customer %d already registered", *c.ID), err)
	}
	return nil, errs.New(errs.KindInternal, "could not allocate a customer id", err)
}

// randomCustomerID draws a ten digit id.
func randomCustomerID() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return minGeneratedID + int64(binary.BigEndian.Uint64(b[:])%generatedIDSpan)
}
