package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStateTransitionChart(t *testing.T) {
	allowed := [][2]State{
		{Validating, Reserving},
		{Reserving, CheckingFunds},
		{CheckingFunds, Committing},
		{Committing, Completed},
		{Validating, Aborted},
		{Reserving, Aborted},
		{CheckingFunds, Aborted},
		{Committing, Aborted},
	}
	for _, tr := range allowed {
		assert.True(t, stateTransitionChart.Allowed(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]State{
		{Validating, Committing},
		{Reserving, Completed},
		{Completed, Aborted},
		{Aborted, Reserving},
		{Completed, Reserving},
	}
	for _, tr := range rejected {
		assert.False(t, stateTransitionChart.Allowed(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestFlow(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		f := newFlow(zap.NewNop())
		assert.NoError(t, f.advance(Reserving))
		assert.NoError(t, f.advance(CheckingFunds))
		assert.NoError(t, f.advance(Committing))
		assert.NoError(t, f.advance(Completed))
		assert.True(t, f.state.Terminal())
	})

	t.Run("Skipping A Step", func(t *testing.T) {
		f := newFlow(zap.NewNop())
		assert.Error(t, f.advance(Committing))
		assert.Equal(t, Validating, f.state)
	})

	t.Run("Abort Is Final", func(t *testing.T) {
		f := newFlow(zap.NewNop())
		assert.NoError(t, f.advance(Reserving))
		f.abort("out of stock")
		assert.Equal(t, Aborted, f.state)
		assert.Equal(t, "out of stock", f.reason)

		f.abort("again")
		assert.Equal(t, "out of stock", f.reason)
		assert.Error(t, f.advance(CheckingFunds))
	})
}
