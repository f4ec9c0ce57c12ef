package storage

import (
	"context"

	"github.com/chris/wallet-kiosk/pkg/models"
)

// BalanceWriter defines the conditional balance mutations of the ledger.
// Every mutation writes a ledger entry under movement.EntryID in the same
// atomic operation; an entry id can be written once.
type BalanceWriter interface {
	// Debit decrements the balance if it covers the amount.
	// It returns ErrInsufficientFunds, ErrNotFound or ErrEntryExists on rejection.
	Debit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error)

	// Credit increments the balance. It returns ErrNotFound or ErrEntryExists on rejection.
	Credit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error)

	// VoidEntry claims entryID with a VOID entry without moving any balance.
	// It returns ErrEntryExists if the id is already taken.
	VoidEntry(ctx context.Context, entryID, settlementID string) error
}

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// GetEntry retrieves a ledger entry by its id.
	GetEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error)
}
