package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus defines the persisted states of a purchase settlement intent.
type SettlementStatus string

const (
	// RESERVED means stock is decremented and the ledger debit has not been confirmed.
	RESERVED SettlementStatus = "RESERVED"
	// PARTIAL means the ledger outcome is unknown and the intent awaits reconciliation.
	PARTIAL   SettlementStatus = "PARTIAL"
	COMPLETED SettlementStatus = "COMPLETED"
	ABORTED   SettlementStatus = "ABORTED"
)

// Open reports whether the intent still holds reserved stock.
func (s SettlementStatus) Open() bool {
	return s == RESERVED || s == PARTIAL
}

// LedgerEntryKind defines the kind of a balance movement.
type LedgerEntryKind string

const (
	DEBIT  LedgerEntryKind = "DEBIT"
	CREDIT LedgerEntryKind = "CREDIT"
	// VOID occupies a settlement's entry id so that a late debit can never land.
	VOID LedgerEntryKind = "VOID"
)

// Product is a catalog item held in the inventory store.
type Product struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	AvailableStock int64           `gorm:"not null;check:chk_products_available_stock,available_stock >= 0" json:"available_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Customer is a wallet holder held in the ledger store. ID is the national id.
type Customer struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	QRCredential string          `json:"qr_credential"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PurchaseLine is one {product, quantity} pair of a purchase. Lines for the
// same product are independent and accumulate.
type PurchaseLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// SettlementLine is a purchase line priced at settlement time.
type SettlementLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Settlement is the persisted intent of a purchase. It is written in the same
// inventory transaction as the stock decrements.
type Settlement struct {
	ID             string           `gorm:"primaryKey;type:varchar(36)"`
	IdempotencyKey *string          `gorm:"uniqueIndex;type:varchar(128)"`
	Credential     string           `gorm:"not null"`
	CustomerID     *int64           `gorm:"index"`
	Lines          []SettlementLine `gorm:"serializer:json;type:jsonb;not null"`
	TotalCost      decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	NewBalance     *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status         SettlementStatus `gorm:"type:varchar(16);not null;index:idx_settlements_status_updated,priority:1"`
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time `gorm:"index:idx_settlements_status_updated,priority:2"`
}

// LedgerEntry is one balance movement in the ledger store.
type LedgerEntry struct {
	EntryID      string
	CustomerID   int64
	Kind         LedgerEntryKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	SettlementID string
	Description  string
	Timestamp    time.Time
}

// BalanceMovement describes a conditional ledger write.
type BalanceMovement struct {
	EntryID      string
	CustomerID   int64
	Amount       decimal.Decimal
	SettlementID string
	Description  string
}
