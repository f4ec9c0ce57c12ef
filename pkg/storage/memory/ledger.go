package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
)

// LedgerStore holds customers and ledger entries behind one lock.
type LedgerStore struct {
	mu           sync.Mutex
	customers    map[int64]models.Customer
	byCredential map[string]int64
	entries      map[string]models.LedgerEntry
	now          func() time.Time
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore(opts ...Option) *LedgerStore {
	o := buildOptions(opts)
	return &LedgerStore{
		customers:    make(map[int64]models.Customer),
		byCredential: make(map[string]int64),
		entries:      make(map[string]models.LedgerEntry),
		now:          o.now,
	}
}

var _ storage.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, storage.ErrNotFound)
	}
	return &c, nil
}

func (s *LedgerStore) GetCustomerByCredential(ctx context.Context, credential string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCredential[credential]
	if !ok {
		return nil, fmt.Errorf("customer with credential: %w", storage.ErrNotFound)
	}
	c := s.customers[id]
	return &c, nil
}

func (s *LedgerStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.filter(func(models.Customer) bool { return true }), nil
}

func (s *LedgerStore) SearchCustomers(ctx context.Context, key string) ([]models.Customer, error) {
	key = strings.ToLower(key)
	return s.filter(func(c models.Customer) bool {
		return strings.Contains(strconv.FormatInt(c.ID, 10), key) || strings.Contains(strings.ToLower(c.Name), key)
	}), nil
}

func (s *LedgerStore) filter(keep func(models.Customer) bool) []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if keep(c) {
			customers = append(customers, c)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers
}

func (s *LedgerStore) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.customers[customer.ID]; taken {
		return nil, fmt.Errorf("customer %d: %w", customer.ID, storage.ErrAlreadyExists)
	}
	if _, taken := s.byCredential[customer.QRCredential]; taken {
		return nil, fmt.Errorf("customer credential: %w", storage.ErrAlreadyExists)
	}
	c := *customer
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.customers[c.ID] = c
	s.byCredential[c.QRCredential] = c.ID
	return &c, nil
}

func (s *LedgerStore) Debit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error) {
	return s.move(movement, models.DEBIT)
}

func (s *LedgerStore) Credit(ctx context.Context, movement models.BalanceMovement) (*models.LedgerEntry, error) {
	return s.move(movement, models.CREDIT)
}

func (s *LedgerStore) move(movement models.BalanceMovement, kind models.LedgerEntryKind) (*models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.entries[movement.EntryID]; taken {
		return nil, fmt.Errorf("entry %s: %w", movement.EntryID, storage.ErrEntryExists)
	}
	c, ok := s.customers[movement.CustomerID]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", movement.CustomerID, storage.ErrNotFound)
	}

	switch kind {
	case models.DEBIT:
		if c.Balance.LessThan(movement.Amount) {
			return nil, fmt.Errorf("customer %d: %w", movement.CustomerID, storage.ErrInsufficientFunds)
		}
		c.Balance = c.Balance.Sub(movement.Amount)
	case models.CREDIT:
		c.Balance = c.Balance.Add(movement.Amount)
	}
	s.customers[c.ID] = c

	entry := models.LedgerEntry{
		EntryID:      movement.EntryID,
		CustomerID:   c.ID,
		Kind:         kind,
		Amount:       movement.Amount,
		BalanceAfter: c.Balance,
		SettlementID: movement.SettlementID,
		Description:  movement.Description,
		Timestamp:    s.now(),
	}
	s.entries[entry.EntryID] = entry
	return &entry, nil
}

func (s *LedgerStore) VoidEntry(ctx context.Context, entryID, settlementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.entries[entryID]; taken {
		return fmt.Errorf("entry %s: %w", entryID, storage.ErrEntryExists)
	}
	s.entries[entryID] = models.LedgerEntry{
		EntryID:      entryID,
		Kind:         models.VOID,
		SettlementID: settlementID,
		Description:  fmt.Sprintf("Void for settlement %s", settlementID),
		Timestamp:    s.now(),
	}
	return nil
}

func (s *LedgerStore) GetEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", entryID, storage.ErrNotFound)
	}
	return &e, nil
}
