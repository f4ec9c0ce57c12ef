package scheduler

import (
	"context"
	"time"
)

// ReconciliationMessage is the queue payload asking for a settlement to be reconciled.
type ReconciliationMessage struct {
	SettlementID string `json:"settlement_id"`
	Reason       string `json:"reason,omitempty"`
}

// Scheduler defines the interface for a component that schedules settlements for reconciliation.
type Scheduler interface {
	// ScheduleReconciliation enqueues a settlement for asynchronous reconciliation after delay.
	ScheduleReconciliation(ctx context.Context, msg ReconciliationMessage, delay time.Duration) error
}
