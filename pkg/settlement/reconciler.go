package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/notify"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"go.uber.org/zap"
)

// Resolution is how the reconciler closed a settlement.
type Resolution string

const (
	// ResolutionCompleted means the debit was found and the settlement completed.
	ResolutionCompleted Resolution = "completed"
	// ResolutionAborted means the debit was voided and the stock released.
	ResolutionAborted Resolution = "aborted"
	// ResolutionClosed means the settlement was already closed.
	ResolutionClosed Resolution = "closed"
)

// Reconciler closes settlements whose ledger outcome was never confirmed.
type Reconciler struct {
	settings
	inventory storage.SettlementStore
	ledger    Ledger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(inventory storage.SettlementStore, ledger Ledger, opts ...Option) *Reconciler {
	return &Reconciler{
		settings:  newSettings(opts),
		inventory: inventory,
		ledger:    ledger,
	}
}

// Reconcile decides the outcome of an open settlement. It first claims the
// settlement's debit entry id with a VOID entry: if the claim succeeds the
// debit never happened and can no longer land, so the stock is released.
// Otherwise the existing entry decides.
func (r *Reconciler) Reconcile(ctx context.Context, settlementID string) (Resolution, error) {
	st, err := r.inventory.GetSettlement(ctx, settlementID)
	if err != nil {
		return "", fmt.Errorf("failed to get settlement %s: %w", settlementID, err)
	}
	if !st.Status.Open() {
		return ResolutionClosed, nil
	}

	logger := r.logger.With(zap.String("settlement_id", st.ID))
	entryID := DebitEntryID(st.ID)

	err = r.withLedgerTimeout(ctx, func(lctx context.Context) error {
		return r.ledger.VoidEntry(lctx, entryID, st.ID)
	})
	switch {
	case err == nil:
		logger.Info("ledger debit voided")
		return r.release(ctx, st, logger)
	case !errors.Is(err, storage.ErrEntryExists):
		return "", fmt.Errorf("failed to void debit of settlement %s: %w", st.ID, err)
	}

	var entry *models.LedgerEntry
	err = r.withLedgerTimeout(ctx, func(lctx context.Context) error {
		var getErr error
		entry, getErr = r.ledger.GetEntry(lctx, entryID)
		return getErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to read debit of settlement %s: %w", st.ID, err)
	}

	switch entry.Kind {
	case models.DEBIT:
		err := r.inventory.CompleteSettlement(ctx, st.ID, entry.CustomerID, entry.BalanceAfter)
		if errors.Is(err, storage.ErrSettlementClosed) {
			return ResolutionClosed, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to complete settlement %s: %w", st.ID, err)
		}
		r.metrics.ObserveReconciliation(string(ResolutionCompleted))
		logger.Info("settlement reconciled as completed", zap.String("new_balance", entry.BalanceAfter.String()))
		return ResolutionCompleted, nil
	case models.VOID:
		return r.release(ctx, st, logger)
	default:
		return "", fmt.Errorf("settlement %s: unexpected %s entry under debit id", st.ID, entry.Kind)
	}
}

func (r *Reconciler) release(ctx context.Context, st *models.Settlement, logger *zap.Logger) (Resolution, error) {
	reason := failureReason(errs.Newf(errs.KindStoreUnavailable, "ledger debit was not applied; reservation released"))
	err := r.inventory.ReleaseStock(ctx, st.ID, reason)
	if errors.Is(err, storage.ErrSettlementClosed) {
		return ResolutionClosed, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to release stock of settlement %s: %w", st.ID, err)
	}
	r.stockChanged(ctx, st.ID)
	r.metrics.ObserveReconciliation(string(ResolutionAborted))
	logger.Info("settlement reconciled as aborted")
	return ResolutionAborted, nil
}

func (r *Reconciler) withLedgerTimeout(ctx context.Context, fn func(context.Context) error) error {
	lctx, cancel := context.WithTimeout(ctx, r.ledgerTimeout)
	defer cancel()
	return fn(lctx)
}

// Summary counts the resolutions of a sweep.
type Summary struct {
	Completed int
	Aborted   int
	Closed    int
	Failed    int
}

// ReconcileStuck reconciles every open settlement not updated within maxAge.
// A failing settlement does not stop the sweep; the failures are joined into
// the returned error.
func (r *Reconciler) ReconcileStuck(ctx context.Context, maxAge time.Duration) (Summary, error) {
	var summary Summary

	stuck, err := r.inventory.ListStuckSettlements(ctx, maxAge)
	if err != nil {
		return summary, fmt.Errorf("failed to list stuck settlements: %w", err)
	}

	var failures []error
	for _, st := range stuck {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		resolution, err := r.Reconcile(ctx, st.ID)
		if err != nil {
			summary.Failed++
			failures = append(failures, err)
			r.logger.Error("failed to reconcile settlement", zap.String("settlement_id", st.ID), zap.Error(err))
			r.alert(ctx, st, err)
			continue
		}

		switch resolution {
		case ResolutionCompleted:
			summary.Completed++
		case ResolutionAborted:
			summary.Aborted++
		case ResolutionClosed:
			summary.Closed++
		}
	}

	r.logger.Info("reconciliation sweep finished",
		zap.Int("stuck", len(stuck)),
		zap.Int("completed", summary.Completed),
		zap.Int("aborted", summary.Aborted),
		zap.Int("failed", summary.Failed),
	)
	return summary, errors.Join(failures...)
}

func (r *Reconciler) alert(ctx context.Context, st models.Settlement, cause error) {
	alert := notify.Alert{
		Type:         notify.AlertReconciliationFailed,
		SettlementID: st.ID,
		CustomerID:   st.CustomerID,
		Reason:       cause.Error(),
		OccurredAt:   time.Now().UTC(),
	}
	if err := r.alerts.Publish(ctx, alert); err != nil {
		r.logger.Error("failed to publish reconciliation alert", zap.String("settlement_id", st.ID), zap.Error(err))
	}
}
