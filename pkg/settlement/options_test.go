package settlement

import (
	"context"
	"strings"
	"testing"

	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("Metrics Record Outcomes", func(t *testing.T) {
		f := newFixture(t, "20")
		reg := prometheus.NewRegistry()
		coord := NewCoordinator(f.inventory, f.ledger, WithMetrics(metrics.NewRecorder(reg)))

		_, err := coord.SettlePurchase(ctx, purchase(line(1, 1)))
		require.NoError(t, err)
		_, err = coord.SettlePurchase(ctx, purchase(line(1, 3)))
		assert.Equal(t, errs.KindInsufficientFunds, errs.KindOf(err))

		expected := `
# HELP kiosk_compensations_total Stock reservations released after a failed debit.
# TYPE kiosk_compensations_total counter
kiosk_compensations_total 1
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "kiosk_compensations_total"))
		count, err := testutil.GatherAndCount(reg, "kiosk_settlements_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Logger", func(t *testing.T) {
		f := newFixture(t, "50")
		core, logs := observer.New(zapcore.DebugLevel)
		coord := NewCoordinator(f.inventory, f.ledger, WithLogger(zap.New(core)))

		_, err := coord.SettlePurchase(ctx, purchase(line(1, 1)))
		require.NoError(t, err)

		assert.NotZero(t, logs.Len())
	})

	t.Run("Nil Logger", func(t *testing.T) {
		f := newFixture(t, "50")
		coord := NewCoordinator(f.inventory, f.ledger, WithLogger(nil))

		assert.NotPanics(t, func() {
			_, err := coord.SettlePurchase(ctx, purchase(line(1, 1)))
			assert.NoError(t, err)
		})
	})
}
