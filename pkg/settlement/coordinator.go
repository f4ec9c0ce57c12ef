// Package settlement settles a purchase across the inventory store and the
// wallet ledger. The two stores share no transaction: stock is reserved
// together with a persisted intent, the balance is debited with a
// conditional write, and a failed debit is compensated by releasing the
// reservation. An unknown debit outcome is never compensated; the intent is
// flagged and left to the Reconciler.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/notify"
	"github.com/chris/wallet-kiosk/pkg/scheduler"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is the part of the ledger store used by settlements.
type Ledger interface {
	storage.CustomerReader
	storage.BalanceWriter
	storage.LedgerReader
}

// PurchaseRequest is a purchase to settle. Credential is the scanned QR
// credential of the paying customer.
type PurchaseRequest struct {
	Lines          []models.PurchaseLine
	Credential     string
	IdempotencyKey string
}

// PurchaseResult is the outcome of a settled purchase.
type PurchaseResult struct {
	SettlementID string
	TotalCost    decimal.Decimal
	NewBalance   decimal.Decimal
	Lines        []models.PurchaseLine
}

// Coordinator settles purchases.
type Coordinator struct {
	settings
	inventory storage.SettlementStore
	ledger    Ledger
	newID     func() string
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(inventory storage.SettlementStore, ledger Ledger, opts ...Option) *Coordinator {
	return &Coordinator{
		settings:  newSettings(opts),
		inventory: inventory,
		ledger:    ledger,
		newID:     func() string { return uuid.NewString() },
	}
}

// DebitEntryID is the ledger entry id of a settlement's debit. A settlement
// can be debited at most once.
func DebitEntryID(settlementID string) string {
	return "settlement#" + settlementID
}

// SettlePurchase validates the request, reserves stock, checks and debits the
// customer's balance, and returns the priced result. On any failure both
// stores are left as they were, except for a PartialFailureError, which
// means the ledger outcome could not be confirmed and the settlement has been
// queued for reconciliation.
func (c *Coordinator) SettlePurchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	start := time.Now()
	result, err := c.settle(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	c.metrics.ObserveSettlement(outcome, time.Since(start))
	return result, err
}

func (c *Coordinator) settle(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	f := newFlow(c.logger)

	if err := validate(req); err != nil {
		f.abort(err.Message)
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := c.inventory.GetSettlementByIdempotencyKey(ctx, req.IdempotencyKey)
		switch {
		case err == nil:
			f.abort("replayed")
			if !sameRequest(existing, req) {
				return nil, errs.Newf(errs.KindDuplicateRequest,
					"idempotency key %q was used for a different purchase", req.IdempotencyKey)
			}
			return replay(existing)
		case !errors.Is(err, storage.ErrNotFound):
			f.abort("idempotency lookup failed")
			return nil, errs.New(errs.KindStoreUnavailable, "inventory store unavailable", err)
		}
	}

	// 1. Reserve stock and persist the intent in one inventory transaction.
	if err := f.advance(Reserving); err != nil {
		return nil, errs.New(errs.KindInternal, "invalid settlement state", err)
	}
	st := newSettlement(c.newID(), req)
	if err := c.inventory.ReserveStock(ctx, st); err != nil {
		failure := reservationError(err)
		f.abort(failure.Message)
		return nil, failure
	}

	logger := c.logger.With(zap.String("settlement_id", st.ID))
	logger.Info("stock reserved", zap.String("total_cost", st.TotalCost.String()))

	// Stock is committed. From here on every outcome must be recorded, so a
	// cancelled request must not interrupt the bookkeeping.
	bctx := context.WithoutCancel(ctx)
	c.stockChanged(bctx, st.ID)

	// 2. Resolve the credential and check the balance.
	if err := f.advance(CheckingFunds); err != nil {
		return nil, c.abort(bctx, f, st, nil, errs.New(errs.KindInternal, "invalid settlement state", err))
	}
	customer, failure := c.resolveCustomer(bctx, req.Credential)
	if failure != nil {
		return nil, c.abort(bctx, f, st, nil, failure)
	}
	if customer.Balance.LessThan(st.TotalCost) {
		return nil, c.abort(bctx, f, st, &customer.ID, errs.Newf(errs.KindInsufficientFunds,
			"balance %s does not cover total %s", customer.Balance, st.TotalCost))
	}

	// 3. Debit the ledger.
	if err := f.advance(Committing); err != nil {
		return nil, c.abort(bctx, f, st, &customer.ID, errs.New(errs.KindInternal, "invalid settlement state", err))
	}
	entry, err := c.debit(bctx, st, customer.ID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrInsufficientFunds):
		return nil, c.abort(bctx, f, st, &customer.ID, errs.New(errs.KindInsufficientFunds, "balance does not cover total", err))
	case errors.Is(err, storage.ErrNotFound):
		return nil, c.abort(bctx, f, st, &customer.ID, errs.New(errs.KindCustomerNotFound, "customer not found", err))
	case errors.Is(err, storage.ErrConflict):
		return nil, c.abort(bctx, f, st, &customer.ID, errs.New(errs.KindStoreUnavailable, "ledger store busy", err))
	default:
		// Timeouts, lost connections and an already taken entry id all leave
		// the debit unconfirmed.
		f.abort("ledger outcome unknown")
		return nil, c.escalate(bctx, st, &customer.ID, "ledger debit outcome unknown", err)
	}

	// 4. Both stores are applied.
	if err := f.advance(Completed); err != nil {
		logger.Error("settlement completed outside of its flow", zap.Error(err))
	}
	if err := c.inventory.CompleteSettlement(bctx, st.ID, customer.ID, entry.BalanceAfter); err != nil {
		logger.Warn("failed to mark settlement completed; reconciler will close it", zap.Error(err))
	}

	logger.Info("settlement completed",
		zap.Int64("customer_id", customer.ID),
		zap.String("total_cost", st.TotalCost.String()),
		zap.String("new_balance", entry.BalanceAfter.String()),
	)
	return &PurchaseResult{
		SettlementID: st.ID,
		TotalCost:    st.TotalCost,
		NewBalance:   entry.BalanceAfter,
		Lines:        req.Lines,
	}, nil
}

func validate(req PurchaseRequest) *errs.Error {
	if len(req.Lines) == 0 {
		return errs.Newf(errs.KindValidation, "purchase has no items")
	}
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return errs.Newf(errs.KindValidation, "item %d: quantity must be positive", i)
		}
	}
	if strings.TrimSpace(req.Credential) == "" {
		return errs.Newf(errs.KindValidation, "customer credential is required")
	}
	return nil
}

func newSettlement(id string, req PurchaseRequest) *models.Settlement {
	lines := make([]models.SettlementLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = models.SettlementLine{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	st := &models.Settlement{
		ID:         id,
		Credential: req.Credential,
		Lines:      lines,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		st.IdempotencyKey = &key
	}
	return st
}

func reservationError(err error) *errs.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.New(errs.KindProductNotFound, "product not found", err)
	case errors.Is(err, storage.ErrInsufficientStock):
		return errs.New(errs.KindInsufficientStock, "not enough stock", err)
	case errors.Is(err, storage.ErrDuplicateSettlement):
		return errs.New(errs.KindDuplicateRequest, "a purchase with this idempotency key is in progress", err)
	default:
		return errs.New(errs.KindStoreUnavailable, "inventory store unavailable", err)
	}
}

// resolveCustomer maps the scanned credential to a customer.
func (c *Coordinator) resolveCustomer(ctx context.Context, credential string) (*models.Customer, *errs.Error) {
	lctx, cancel := context.WithTimeout(ctx, c.ledgerTimeout)
	defer cancel()

	customer, err := c.ledger.GetCustomerByCredential(lctx, credential)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.New(errs.KindCustomerNotFound, "no customer for credential", err)
		}
		return nil, errs.New(errs.KindStoreUnavailable, "ledger store unavailable", err)
	}
	return customer, nil
}

func (c *Coordinator) debit(ctx context.Context, st *models.Settlement, customerID int64) (*models.LedgerEntry, error) {
	lctx, cancel := context.WithTimeout(ctx, c.ledgerTimeout)
	defer cancel()

	return c.ledger.Debit(lctx, models.BalanceMovement{
		EntryID:      DebitEntryID(st.ID),
		CustomerID:   customerID,
		Amount:       st.TotalCost,
		SettlementID: st.ID,
		Description:  fmt.Sprintf("Purchase settlement %s", st.ID),
	})
}

// abort releases the reservation of st and returns failure. If the release
// fails the settlement is escalated instead.
func (c *Coordinator) abort(ctx context.Context, f *flow, st *models.Settlement, customerID *int64, failure *errs.Error) error {
	f.abort(failure.Message)

	if err := c.inventory.ReleaseStock(ctx, st.ID, failureReason(failure)); err != nil {
		c.logger.Error("failed to release reserved stock",
			zap.String("settlement_id", st.ID),
			zap.Error(err),
		)
		return c.escalate(ctx, st, customerID, "stock release failed", errors.Join(failure, err))
	}
	c.metrics.IncCompensation()
	c.stockChanged(ctx, st.ID)
	c.logger.Info("settlement aborted",
		zap.String("settlement_id", st.ID),
		zap.String("kind", string(failure.Kind)),
		zap.String("reason", failure.Message),
	)
	return failure
}

// escalate flags st as PARTIAL, queues it for reconciliation and alerts
// operators. Failures of these steps are logged and joined into the result.
func (c *Coordinator) escalate(ctx context.Context, st *models.Settlement, customerID *int64, reason string, cause error) error {
	c.metrics.IncPartialFailure()
	logger := c.logger.With(zap.String("settlement_id", st.ID))
	logger.Error("settlement outcome unconfirmed", zap.String("reason", reason), zap.Error(cause))

	var flagErr error
	if err := c.inventory.FlagSettlement(ctx, st.ID, customerID, reason); err != nil && !errors.Is(err, storage.ErrSettlementClosed) {
		logger.Error("CRITICAL: failed to flag settlement", zap.Error(err))
		flagErr = err
	}

	if c.scheduler != nil {
		msg := scheduler.ReconciliationMessage{SettlementID: st.ID, Reason: reason}
		if err := c.scheduler.ScheduleReconciliation(ctx, msg, c.reconcileDelay); err != nil {
			logger.Error("failed to enqueue settlement for reconciliation", zap.Error(err))
		}
	}

	alert := notify.Alert{
		Type:         notify.AlertPartialFailure,
		SettlementID: st.ID,
		CustomerID:   customerID,
		Reason:       reason,
		OccurredAt:   time.Now().UTC(),
	}
	if err := c.alerts.Publish(ctx, alert); err != nil {
		logger.Error("failed to publish partial failure alert", zap.Error(err))
	}

	return errs.New(errs.KindPartialFailure,
		fmt.Sprintf("settlement %s could not be confirmed and is queued for reconciliation", st.ID),
		errors.Join(cause, flagErr))
}

// sameRequest reports whether req carries the credential and lines the
// settlement was created with.
func sameRequest(st *models.Settlement, req PurchaseRequest) bool {
	if st.Credential != req.Credential || len(st.Lines) != len(req.Lines) {
		return false
	}
	for i, line := range req.Lines {
		if st.Lines[i].ProductID != line.ProductID || st.Lines[i].Quantity != line.Quantity {
			return false
		}
	}
	return true
}

// replay returns the stored outcome of a settlement created with the same
// idempotency key.
func replay(st *models.Settlement) (*PurchaseResult, error) {
	switch st.Status {
	case models.COMPLETED:
		result := &PurchaseResult{
			SettlementID: st.ID,
			TotalCost:    st.TotalCost,
			Lines:        make([]models.PurchaseLine, len(st.Lines)),
		}
		if st.NewBalance != nil {
			result.NewBalance = *st.NewBalance
		}
		for i, line := range st.Lines {
			result.Lines[i] = models.PurchaseLine{ProductID: line.ProductID, Quantity: line.Quantity}
		}
		return result, nil
	case models.ABORTED:
		return nil, storedFailure(st.FailureReason)
	case models.PARTIAL:
		return nil, errs.Newf(errs.KindPartialFailure, "settlement %s is awaiting reconciliation", st.ID)
	default:
		return nil, errs.Newf(errs.KindDuplicateRequest, "settlement %s is in progress", st.ID)
	}
}

// failureReason is the persisted form of an abort cause.
func failureReason(e *errs.Error) string {
	return string(e.Kind) + ": " + e.Message
}

var replayableKinds = map[errs.Kind]bool{
	errs.KindValidation:        true,
	errs.KindProductNotFound:   true,
	errs.KindCustomerNotFound:  true,
	errs.KindInsufficientStock: true,
	errs.KindInsufficientFunds: true,
	errs.KindStoreUnavailable:  true,
}

func storedFailure(reason string) *errs.Error {
	kind, message, ok := strings.Cut(reason, ": ")
	if !ok || !replayableKinds[errs.Kind(kind)] {
		return errs.Newf(errs.KindStoreUnavailable, "settlement aborted: %s", reason)
	}
	return errs.New(errs.Kind(kind), message, nil)
}
