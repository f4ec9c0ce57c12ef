// Package notify publishes operator alerts for settlements that need attention.
package notify

import (
	"context"
	"time"
)

// AlertType names the condition that raised an alert.
type AlertType string

const (
	// AlertPartialFailure is raised when a settlement's stock and balance
	// changes could not be confirmed paired.
	AlertPartialFailure AlertType = "settlement.partial_failure"
	// AlertReconciliationFailed is raised when the reconciler cannot resolve a settlement.
	AlertReconciliationFailed AlertType = "settlement.reconciliation_failed"
)

// Alert is the message delivered to operators.
type Alert struct {
	Type         AlertType `json:"type"`
	SettlementID string    `json:"settlement_id"`
	CustomerID   *int64    `json:"customer_id,omitempty"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher defines the interface for sending operator alerts.
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, alert Alert) error {
	return nil
}
