package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProductCache runs against the Redis instance at REDIS_URL and is skipped without one.
func TestProductCache(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(ctx).Err())

	c := NewProductCache(client, time.Minute)
	products := []models.Product{
		{ID: 1, Name: "Coffee", Description: "Black", Price: decimal.RequireFromString("2.50"), AvailableStock: 10},
	}

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := c.GetProducts(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Hit", func(t *testing.T) {
		require.NoError(t, c.SetProducts(ctx, products))

		got, ok, err := c.GetProducts(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, "Coffee", got[0].Name)
		assert.True(t, got[0].Price.Equal(products[0].Price))
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx))

		_, ok, err := c.GetProducts(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNewRedisClientInvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.ErrorContains(t, err, "invalid Redis URL")
}
