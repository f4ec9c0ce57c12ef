package settlement

import (
	"fmt"

	"go.uber.org/zap"
)

// State is a step of a single SettlePurchase call.
type State string

const (
	Validating    State = "VALIDATING"
	Reserving     State = "RESERVING"
	CheckingFunds State = "CHECKING_FUNDS"
	Committing    State = "COMMITTING"
	Completed     State = "COMPLETED"
	Aborted       State = "ABORTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	return s == Completed || s == Aborted
}

var stateTransitionChart = StateTransitionChart{
	Validating:    {Reserving, Aborted},
	Reserving:     {CheckingFunds, Aborted},
	CheckingFunds: {Committing, Aborted},
	Committing:    {Completed, Aborted},
}

type StateTransitionChart map[State][]State

func (s StateTransitionChart) Allowed(from, to State) bool {
	list, exists := s[from]
	if !exists {
		return false
	}
	for _, state := range list {
		if state == to {
			return true
		}
	}
	return false
}

// flow tracks the state of one settlement attempt.
type flow struct {
	state  State
	reason string
	logger *zap.Logger
}

func newFlow(logger *zap.Logger) *flow {
	return &flow{state: Validating, logger: logger}
}

// advance moves the flow to next. A transition missing from the chart is a
// programming error and is returned as such.
func (f *flow) advance(next State) error {
	if !stateTransitionChart.Allowed(f.state, next) {
		f.logger.Error("settlement transition rejected",
			zap.String("from", string(f.state)),
			zap.String("to", string(next)),
		)
		return fmt.Errorf("settlement transition %s -> %s not allowed", f.state, next)
	}
	f.logger.Debug("settlement transition", zap.String("from", string(f.state)), zap.String("to", string(next)))
	f.state = next
	return nil
}

// abort ends the flow with reason. Aborting a terminal flow is a no-op.
func (f *flow) abort(reason string) {
	if f.state.Terminal() {
		return
	}
	f.reason = reason
	_ = f.advance(Aborted)
}
