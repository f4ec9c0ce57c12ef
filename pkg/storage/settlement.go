package storage

import (
	"context"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/shopspring/decimal"
)

// SettlementStore defines the inventory side of a purchase settlement.
// It should only be exposed to the settlement coordinator and the reconciler.
type SettlementStore interface {
	// ReserveStock prices the settlement's lines, applies every conditional
	// stock decrement and inserts the intent as RESERVED in one transaction.
	// On success settlement.TotalCost and each line's UnitPrice are set.
	// It returns ErrNotFound, ErrInsufficientStock or ErrDuplicateSettlement
	// and leaves no trace on failure.
	ReserveStock(ctx context.Context, settlement *models.Settlement) error

	// ReleaseStock re-increments the stock of an open settlement and marks it
	// ABORTED with reason in one transaction. Releasing an ABORTED settlement
	// is a no-op; a COMPLETED one returns ErrSettlementClosed.
	ReleaseStock(ctx context.Context, settlementID, reason string) error

	// CompleteSettlement moves an open settlement to COMPLETED.
	CompleteSettlement(ctx context.Context, settlementID string, customerID int64, newBalance decimal.Decimal) error

	// FlagSettlement moves a RESERVED settlement to PARTIAL.
	FlagSettlement(ctx context.Context, settlementID string, customerID *int64, reason string) error

	// GetSettlement retrieves a settlement by its ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// GetSettlementByIdempotencyKey retrieves the settlement created with key.
	GetSettlementByIdempotencyKey(ctx context.Context, key string) (*models.Settlement, error)

	// ListStuckSettlements retrieves open settlements not updated for longer than maxAge.
	ListStuckSettlements(ctx context.Context, maxAge time.Duration) ([]models.Settlement, error)
}
