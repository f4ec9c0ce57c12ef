// Package memory provides mutex-guarded in-process implementations of the
// inventory and ledger stores. They back the "memory" store backend for local
// runs and the concurrency tests of the settlement flow.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/shopspring/decimal"
)

// InventoryStore holds products and settlement intents behind one lock, so a
// reservation and its intent become visible together.
type InventoryStore struct {
	mu          sync.Mutex
	products    map[int64]models.Product
	settlements map[string]models.Settlement
	keys        map[string]string
	nextID      int64
	now         func() time.Time
}

// Option configures an in-memory store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewInventoryStore creates an empty InventoryStore.
func NewInventoryStore(opts ...Option) *InventoryStore {
	o := buildOptions(opts)
	return &InventoryStore{
		products:    make(map[int64]models.Product),
		settlements: make(map[string]models.Settlement),
		keys:        make(map[string]string),
		now:         o.now,
	}
}

var _ storage.InventoryStore = (*InventoryStore)(nil)

func (s *InventoryStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, storage.ErrNotFound)
	}
	return &p, nil
}

func (s *InventoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *InventoryStore) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *product
	if p.ID == 0 {
		s.nextID++
		for s.products[s.nextID].ID != 0 {
			s.nextID++
		}
		p.ID = s.nextID
	} else if _, taken := s.products[p.ID]; taken {
		return nil, fmt.Errorf("product %d: %w", p.ID, storage.ErrAlreadyExists)
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.products[p.ID] = p
	return &p, nil
}

func (s *InventoryStore) ReserveStock(ctx context.Context, settlement *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key := settlement.IdempotencyKey; key != nil {
		if _, taken := s.keys[*key]; taken {
			return storage.ErrDuplicateSettlement
		}
	}

	staged := make(map[int64]int64)
	lines := make([]models.SettlementLine, len(settlement.Lines))
	total := decimal.Zero
	for i, line := range settlement.Lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return fmt.Errorf("product %d: %w", line.ProductID, storage.ErrNotFound)
		}
		if staged[line.ProductID]+line.Quantity > p.AvailableStock {
			return fmt.Errorf("product %d: %w", line.ProductID, storage.ErrInsufficientStock)
		}
		staged[line.ProductID] += line.Quantity
		lines[i] = models.SettlementLine{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: p.Price}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}

	now := s.now()
	for id, qty := range staged {
		p := s.products[id]
		p.AvailableStock -= qty
		p.UpdatedAt = now
		s.products[id] = p
	}

	settlement.Lines = lines
	settlement.TotalCost = total
	settlement.Status = models.RESERVED
	settlement.CreatedAt, settlement.UpdatedAt = now, now
	s.settlements[settlement.ID] = cloneSettlement(*settlement)
	if key := settlement.IdempotencyKey; key != nil {
		s.keys[*key] = settlement.ID
	}
	return nil
}

func (s *InventoryStore) ReleaseStock(ctx context.Context, settlementID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settlements[settlementID]
	if !ok {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	switch st.Status {
	case models.ABORTED:
		return nil
	case models.COMPLETED:
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementClosed)
	}

	now := s.now()
	for _, line := range st.Lines {
		p := s.products[line.ProductID]
		p.AvailableStock += line.Quantity
		p.UpdatedAt = now
		s.products[line.ProductID] = p
	}
	st.Status = models.ABORTED
	st.FailureReason = reason
	st.UpdatedAt = now
	s.settlements[settlementID] = st
	return nil
}

func (s *InventoryStore) CompleteSettlement(ctx context.Context, settlementID string, customerID int64, newBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settlements[settlementID]
	if !ok {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if !st.Status.Open() {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementClosed)
	}
	st.Status = models.COMPLETED
	st.CustomerID = &customerID
	st.NewBalance = &newBalance
	st.FailureReason = ""
	st.UpdatedAt = s.now()
	s.settlements[settlementID] = st
	return nil
}

func (s *InventoryStore) FlagSettlement(ctx context.Context, settlementID string, customerID *int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settlements[settlementID]
	if !ok {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if st.Status != models.RESERVED {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementClosed)
	}
	st.Status = models.PARTIAL
	st.CustomerID = customerID
	st.FailureReason = reason
	st.UpdatedAt = s.now()
	s.settlements[settlementID] = st
	return nil
}

func (s *InventoryStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settlements[settlementID]
	if !ok {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	st = cloneSettlement(st)
	return &st, nil
}

func (s *InventoryStore) GetSettlementByIdempotencyKey(ctx context.Context, key string) (*models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.keys[key]
	if !ok {
		return nil, fmt.Errorf("settlement with idempotency key %s: %w", key, storage.ErrNotFound)
	}
	st := cloneSettlement(s.settlements[id])
	return &st, nil
}

func (s *InventoryStore) ListStuckSettlements(ctx context.Context, maxAge time.Duration) ([]models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	var stuck []models.Settlement
	for _, st := range s.settlements {
		if st.Status.Open() && st.UpdatedAt.Before(cutoff) {
			stuck = append(stuck, cloneSettlement(st))
		}
	}
	sort.Slice(stuck, func(i, j int) bool { return stuck[i].CreatedAt.Before(stuck[j].CreatedAt) })
	return stuck, nil
}

func cloneSettlement(st models.Settlement) models.Settlement {
	st.Lines = append([]models.SettlementLine(nil), st.Lines...)
	return st
}
