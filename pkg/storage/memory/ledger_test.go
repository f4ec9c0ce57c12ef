package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCustomer(t *testing.T, s *LedgerStore, id int64, name, balance string) *models.Customer {
	t.Helper()
	c, err := s.CreateCustomer(context.Background(), &models.Customer{
		ID:           id,
		Name:         name,
		QRCredential: name + "-qr",
		Balance:      decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return c
}

func TestDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := NewLedgerStore()
		seedCustomer(t, s, 1, "ana", "100")

		entry, err := s.Debit(ctx, models.BalanceMovement{EntryID: "settlement#a", CustomerID: 1, Amount: decimal.NewFromInt(30)})
		require.NoError(t, err)
		assert.Equal(t, models.DEBIT, entry.Kind)
		assert.True(t, decimal.NewFromInt(70).Equal(entry.BalanceAfter))
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		s := NewLedgerStore()
		seedCustomer(t, s, 1, "ana", "20")

		_, err := s.Debit(ctx, models.BalanceMovement{EntryID: "settlement#a", CustomerID: 1, Amount: decimal.NewFromInt(30)})
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)

		c, _ := s.GetCustomer(ctx, 1)
		assert.True(t, decimal.NewFromInt(20).Equal(c.Balance))
		_, err = s.GetEntry(ctx, "settlement#a")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Entry Exists", func(t *testing.T) {
		s := NewLedgerStore()
		seedCustomer(t, s, 1, "ana", "100")
		require.NoError(t, s.VoidEntry(ctx, "settlement#a", "a"))

		_, err := s.Debit(ctx, models.BalanceMovement{EntryID: "settlement#a", CustomerID: 1, Amount: decimal.NewFromInt(30)})
		assert.ErrorIs(t, err, storage.ErrEntryExists)
		c, _ := s.GetCustomer(ctx, 1)
		assert.True(t, decimal.NewFromInt(100).Equal(c.Balance))
	})

	t.Run("Concurrent Debits Never Overdraw", func(t *testing.T) {
		s := NewLedgerStore()
		seedCustomer(t, s, 1, "ana", "50")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = s.Debit(ctx, models.BalanceMovement{
					EntryID:    "settlement#" + string(rune('a'+i)),
					CustomerID: 1,
					Amount:     decimal.NewFromInt(10),
				})
			}(i)
		}
		wg.Wait()

		c, _ := s.GetCustomer(ctx, 1)
		assert.True(t, c.Balance.IsZero())
	})
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	seedCustomer(t, s, 1, "ana", "0")

	entry, err := s.Credit(ctx, models.BalanceMovement{EntryID: "topup#k", CustomerID: 1, Amount: decimal.NewFromInt(25)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(entry.BalanceAfter))

	_, err = s.Credit(ctx, models.BalanceMovement{EntryID: "topup#k", CustomerID: 1, Amount: decimal.NewFromInt(25)})
	assert.ErrorIs(t, err, storage.ErrEntryExists)

	_, err = s.Credit(ctx, models.BalanceMovement{EntryID: "topup#other", CustomerID: 99, Amount: decimal.NewFromInt(25)})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCustomers(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	seedCustomer(t, s, 1710034065, "Maria Lopez", "0")
	seedCustomer(t, s, 920112233, "Jose Perez", "0")

	t.Run("By Credential", func(t *testing.T) {
		c, err := s.GetCustomerByCredential(ctx, "Maria Lopez-qr")
		require.NoError(t, err)
		assert.Equal(t, int64(1710034065), c.ID)

		_, err = s.GetCustomerByCredential(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Search", func(t *testing.T) {
		byName, _ := s.SearchCustomers(ctx, "maria")
		require.Len(t, byName, 1)
		assert.Equal(t, "Maria Lopez", byName[0].Name)

		byID, _ := s.SearchCustomers(ctx, "0112")
		require.Len(t, byID, 1)
		assert.Equal(t, int64(920112233), byID[0].ID)
	})

	t.Run("Conflict", func(t *testing.T) {
		_, err := s.CreateCustomer(ctx, &models.Customer{ID: 920112233, QRCredential: "fresh"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("List", func(t *testing.T) {
		all, _ := s.ListCustomers(ctx)
		require.Len(t, all, 2)
		assert.Equal(t, int64(920112233), all[0].ID)
	})
}
