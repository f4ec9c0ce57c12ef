package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingCache is a versioned in-process stand-in for the Redis listing cache.
type listingCache struct {
	mu            sync.Mutex
	products      []models.Product
	cached        bool
	invalidations int
	err           error
}

func (c *listingCache) GetProducts(ctx context.Context) ([]models.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product(nil), c.products...), c.cached, nil
}

func (c *listingCache) SetProducts(ctx context.Context, products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products, c.cached = append([]models.Product(nil), products...), true
	return nil
}

func (c *listingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.products, c.cached = nil, false
	return c.err
}

func listedStock(t *testing.T, dir *directory.Service, id int64) int64 {
	t.Helper()
	products, err := dir.ListProducts(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		if p.ID == id {
			return p.AvailableStock
		}
	}
	t.Fatalf("product %d not listed", id)
	return 0
}

func TestCatalogListingFollowsStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Purchase", func(t *testing.T) {
		f := newFixture(t, "50")
		cache := &listingCache{}
		dir := directory.NewService(f.inventory, f.ledger, directory.WithCache(cache))
		coord := NewCoordinator(f.inventory, f.ledger, WithCatalogCache(cache))

		require.Equal(t, int64(5), listedStock(t, dir, 1))

		_, err := coord.SettlePurchase(ctx, purchase(line(1, 3)))
		require.NoError(t, err)

		assert.Equal(t, int64(2), f.stock(t, 1))
		assert.Equal(t, int64(2), listedStock(t, dir, 1))
	})

	t.Run("Compensated Purchase", func(t *testing.T) {
		f := newFixture(t, "20")
		cache := &listingCache{}
		dir := directory.NewService(f.inventory, f.ledger, directory.WithCache(cache))
		coord := NewCoordinator(f.inventory, f.ledger, WithCatalogCache(cache))

		require.Equal(t, int64(5), listedStock(t, dir, 1))

		_, err := coord.SettlePurchase(ctx, purchase(line(1, 3)))
		assert.Equal(t, errs.KindInsufficientFunds, errs.KindOf(err))

		assert.Equal(t, 2, cache.invalidations)
		assert.Equal(t, int64(5), listedStock(t, dir, 1))
	})

	t.Run("Reconciled Release", func(t *testing.T) {
		f := newFixture(t, "50")
		cache := &listingCache{}
		dir := directory.NewService(f.inventory, f.ledger, directory.WithCache(cache))
		f.reserve(t, "s-1")
		require.Equal(t, int64(2), listedStock(t, dir, 1))

		resolution, err := NewReconciler(f.inventory, f.ledger, WithCatalogCache(cache)).Reconcile(ctx, "s-1")
		require.NoError(t, err)
		require.Equal(t, ResolutionAborted, resolution)

		assert.Equal(t, int64(5), listedStock(t, dir, 1))
	})

	t.Run("Invalidation Failure Does Not Fail Purchase", func(t *testing.T) {
		f := newFixture(t, "50")
		cache := &listingCache{err: errors.New("redis: connection refused")}
		coord := NewCoordinator(f.inventory, f.ledger, WithCatalogCache(cache))

		result, err := coord.SettlePurchase(ctx, purchase(line(1, 1)))
		require.NoError(t, err)
		assert.True(t, result.TotalCost.IsPositive())
		assert.Equal(t, 1, cache.invalidations)
	})
}
