package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettlement(lines ...models.SettlementLine) *models.Settlement {
	return &models.Settlement{ID: uuid.NewString(), Credential: "qr-1", Lines: lines}
}

func seedProduct(t *testing.T, s *InventoryStore, price string, stock int64) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), &models.Product{
		Name:           "Coffee",
		Description:    "Black coffee",
		Price:          decimal.RequireFromString(price),
		AvailableStock: stock,
	})
	require.NoError(t, err)
	return p
}

func TestReserveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)

		st := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 3})
		require.NoError(t, s.ReserveStock(ctx, st))

		assert.True(t, decimal.NewFromInt(30).Equal(st.TotalCost))
		assert.True(t, decimal.NewFromInt(10).Equal(st.Lines[0].UnitPrice))
		assert.Equal(t, models.RESERVED, st.Status)

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(2), got.AvailableStock)
	})

	t.Run("Duplicate Lines Accumulate", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "2.50", 5)

		st := newSettlement(
			models.SettlementLine{ProductID: p.ID, Quantity: 3},
			models.SettlementLine{ProductID: p.ID, Quantity: 3},
		)
		err := s.ReserveStock(ctx, st)
		assert.ErrorIs(t, err, storage.ErrInsufficientStock)

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(5), got.AvailableStock)
		_, err = s.GetSettlement(ctx, st.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)

		err := s.ReserveStock(ctx, newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 10}))
		assert.ErrorIs(t, err, storage.ErrInsufficientStock)

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(5), got.AvailableStock)
	})

	t.Run("Not Found Leaves Earlier Lines Untouched", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)

		err := s.ReserveStock(ctx, newSettlement(
			models.SettlementLine{ProductID: p.ID, Quantity: 1},
			models.SettlementLine{ProductID: 999, Quantity: 1},
		))
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(5), got.AvailableStock)
	})

	t.Run("Duplicate Idempotency Key", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "1", 5)
		key := "key-1"

		first := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1})
		first.IdempotencyKey = &key
		require.NoError(t, s.ReserveStock(ctx, first))

		second := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1})
		second.IdempotencyKey = &key
		assert.ErrorIs(t, s.ReserveStock(ctx, second), storage.ErrDuplicateSettlement)

		got, err := s.GetSettlementByIdempotencyKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})
}

func TestReserveStockConcurrentLastUnit(t *testing.T) {
	ctx := context.Background()
	s := NewInventoryStore()
	p := seedProduct(t, s, "10", 1)

	var wg sync.WaitGroup
	var succeeded, rejected atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.ReserveStock(ctx, newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1}))
			if err == nil {
				succeeded.Add(1)
			} else if assert.ErrorIs(t, err, storage.ErrInsufficientStock) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(7), rejected.Load())
	got, _ := s.GetProduct(ctx, p.ID)
	assert.Equal(t, int64(0), got.AvailableStock)
}

func TestReleaseStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)
		st := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 3})
		require.NoError(t, s.ReserveStock(ctx, st))

		require.NoError(t, s.ReleaseStock(ctx, st.ID, "InsufficientFunds"))

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(5), got.AvailableStock)
		stored, _ := s.GetSettlement(ctx, st.ID)
		assert.Equal(t, models.ABORTED, stored.Status)
		assert.Equal(t, "InsufficientFunds", stored.FailureReason)
	})

	t.Run("Runs Once", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)
		st := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 3})
		require.NoError(t, s.ReserveStock(ctx, st))

		require.NoError(t, s.ReleaseStock(ctx, st.ID, "first"))
		require.NoError(t, s.ReleaseStock(ctx, st.ID, "second"))

		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(5), got.AvailableStock)
	})

	t.Run("Completed", func(t *testing.T) {
		s := NewInventoryStore()
		p := seedProduct(t, s, "10", 5)
		st := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 3})
		require.NoError(t, s.ReserveStock(ctx, st))
		require.NoError(t, s.CompleteSettlement(ctx, st.ID, 42, decimal.NewFromInt(70)))

		assert.ErrorIs(t, s.ReleaseStock(ctx, st.ID, "late"), storage.ErrSettlementClosed)
		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int64(2), got.AvailableStock)
	})

	t.Run("Not Found", func(t *testing.T) {
		s := NewInventoryStore()
		assert.ErrorIs(t, s.ReleaseStock(ctx, "missing", "x"), storage.ErrNotFound)
	})
}

func TestFlagAndListStuckSettlements(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := NewInventoryStore(WithClock(clock))
	p := seedProduct(t, s, "1", 10)

	flagged := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1})
	require.NoError(t, s.ReserveStock(ctx, flagged))
	customerID := int64(7)
	require.NoError(t, s.FlagSettlement(ctx, flagged.ID, &customerID, "ledger timeout"))
	assert.ErrorIs(t, s.FlagSettlement(ctx, flagged.ID, &customerID, "again"), storage.ErrSettlementClosed)

	done := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1})
	require.NoError(t, s.ReserveStock(ctx, done))
	require.NoError(t, s.CompleteSettlement(ctx, done.ID, customerID, decimal.NewFromInt(5)))

	now = now.Add(30 * time.Minute)
	fresh := newSettlement(models.SettlementLine{ProductID: p.ID, Quantity: 1})
	require.NoError(t, s.ReserveStock(ctx, fresh))

	stuck, err := s.ListStuckSettlements(ctx, 20*time.Minute)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, flagged.ID, stuck[0].ID)
	assert.Equal(t, models.PARTIAL, stuck[0].Status)
	assert.Equal(t, customerID, *stuck[0].CustomerID)
}
