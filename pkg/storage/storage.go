package storage

// InventoryStore defines the root interface of the inventory database. It holds
// the product catalog and the settlement intents, so that an intent and its
// stock decrements commit in one local transaction.
// Components should depend on the granular interfaces (ProductStore,
// SettlementStore) instead of this one.
type InventoryStore interface {
	ProductStore
	SettlementStore
}

// LedgerStore defines the root interface of the wallet ledger database.
type LedgerStore interface {
	CustomerStore
	BalanceWriter
	LedgerReader
}
