// Package topup credits customer wallets.
package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/metrics"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultTimeout = 3 * time.Second

// Ledger is the part of the ledger store used by top-ups.
type Ledger interface {
	storage.CustomerReader
	storage.BalanceWriter
	storage.LedgerReader
}

// Service credits wallets.
type Service struct {
	ledger  Ledger
	metrics *metrics.Recorder
	logger  *zap.Logger
	timeout time.Duration
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records top-up outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithLogger sets the logger; nil disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithTimeout bounds every ledger call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates a new top-up Service.
func NewService(ledger Ledger, opts ...Option) *Service {
	s := &Service{
		ledger:  ledger,
		logger:  zap.NewNop(),
		timeout: defaultTimeout,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EntryID is the ledger entry id of a top-up. Without an idempotency key
// every call gets a fresh id, so repeated calls are applied repeatedly.
func (s *Service) EntryID(idempotencyKey string) string {
	if idempotencyKey == "" {
		return "topup#" + s.newID()
	}
	return "topup#" + idempotencyKey
}

// TopUp credits amount to the customer's wallet and returns the new balance.
// A repeated idempotency key is not applied again; the call returns the
// current balance instead.
func (s *Service) TopUp(ctx context.Context, customerID int64, amount decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	balance, err := s.topUp(ctx, customerID, amount, idempotencyKey)

	outcome := "success"
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	s.metrics.ObserveTopUp(outcome)
	return balance, err
}

func (s *Service) topUp(ctx context.Context, customerID int64, amount decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	if customerID <= 0 {
		return decimal.Zero, errs.Newf(errs.KindValidation, "customer id must be positive")
	}
	if !amount.IsPositive() {
		return decimal.Zero, errs.Newf(errs.KindValidation, "top-up amount must be positive, got %s", amount)
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, errs.Newf(errs.KindValidation, "top-up amount %s has more than two decimal places", amount)
	}

	lctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entryID := s.EntryID(idempotencyKey)
	entry, err := s.ledger.Credit(lctx, models.BalanceMovement{
		EntryID:     entryID,
		CustomerID:  customerID,
		Amount:      amount,
		Description: fmt.Sprintf("Wallet top-up of %s", amount),
	})
	switch {
	case err == nil:
		s.logger.Info("wallet topped up",
			zap.Int64("customer_id", customerID),
			zap.String("entry_id", entryID),
			zap.String("amount", amount.String()),
			zap.String("new_balance", entry.BalanceAfter.String()),
		)
		return entry.BalanceAfter, nil
	case errors.Is(err, storage.ErrEntryExists):
		return s.replay(lctx, customerID, amount, entryID)
	case errors.Is(err, storage.ErrNotFound):
		return decimal.Zero, errs.New(errs.KindCustomerNotFound, fmt.Sprintf("customer %d not found", customerID), err)
	default:
		s.logger.Warn("top-up failed", zap.Int64("customer_id", customerID), zap.String("entry_id", entryID), zap.Error(err))
		return decimal.Zero, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
}

// replay answers a top-up whose entry already exists. The key must have been
// used for the same customer and amount.
func (s *Service) replay(ctx context.Context, customerID int64, amount decimal.Decimal, entryID string) (decimal.Decimal, error) {
	entry, err := s.ledger.GetEntry(ctx, entryID)
	if err != nil {
		return decimal.Zero, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
	if entry.CustomerID != customerID {
		return decimal.Zero, errs.Newf(errs.KindDuplicateRequest, "idempotency key already used for another customer")
	}
	if entry.Kind != models.CREDIT || !entry.Amount.Equal(amount) {
		return decimal.Zero, errs.Newf(errs.KindDuplicateRequest, "idempotency key already used for a top-up of %s", entry.Amount)
	}

	customer, err := s.ledger.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return decimal.Zero, errs.New(errs.KindCustomerNotFound, fmt.Sprintf("customer %d not found", customerID), err)
		}
		return decimal.Zero, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}

	s.logger.Info("top-up replayed", zap.Int64("customer_id", customerID), zap.String("entry_id", entryID))
	return customer.Balance, nil
}
