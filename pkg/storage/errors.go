package storage

import "errors"

// ErrNotFound is returned when a product, customer, settlement or ledger entry does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose key is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrInsufficientStock is returned when a conditional stock decrement matches no row.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInsufficientFunds is returned when a conditional balance decrement is rejected.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrEntryExists is returned when a ledger entry id has already been written.
// It is the idempotency signal for debits, credits and voids.
var ErrEntryExists = errors.New("ledger entry already exists")

// ErrDuplicateSettlement is returned when a settlement intent with the same idempotency key exists.
var ErrDuplicateSettlement = errors.New("settlement with this idempotency key already exists")

// ErrSettlementClosed is returned when a settlement is no longer in a state that allows the requested transition.
var ErrSettlementClosed = errors.New("settlement not in an open state")

// ErrUnavailable is wrapped around failures to reach a store. For writes, the
// outcome of the call is unknown.
var ErrUnavailable = errors.New("store unavailable")

// ErrConflict is returned when an optimistic write lost to concurrent updates
// on every attempt. Nothing was applied.
var ErrConflict = errors.New("concurrent update conflict")
