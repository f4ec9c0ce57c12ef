// Package metrics exposes Prometheus instrumentation for settlements and top-ups.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "kiosk"

// Recorder collects settlement, top-up and reconciliation metrics.
// A nil *Recorder records nothing.
type Recorder struct {
	settlements     *prometheus.CounterVec
	settleDuration  *prometheus.HistogramVec
	topUps          *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	compensations   prometheus.Counter
	partialFailures prometheus.Counter
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Purchase settlements by outcome.",
		}, []string{"outcome"}),
		settleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_duration_seconds",
			Help:      "Time to settle a purchase across both stores.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"outcome"}),
		topUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topups_total",
			Help:      "Wallet top-ups by outcome.",
		}, []string{"outcome"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Reconciled settlements by resolution.",
		}, []string{"resolution"}),
		compensations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Stock reservations released after a failed debit.",
		}),
		partialFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Settlements left with an unconfirmed ledger outcome.",
		}),
	}
	reg.MustRegister(r.settlements, r.settleDuration, r.topUps, r.reconciliations, r.compensations, r.partialFailures)
	return r
}

// ObserveSettlement records one settlement attempt. outcome is "success" or an error kind.
func (r *Recorder) ObserveSettlement(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(outcome).Inc()
	r.settleDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveTopUp(outcome string) {
	if r == nil {
		return
	}
	r.topUps.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveReconciliation(resolution string) {
	if r == nil {
		return
	}
	r.reconciliations.WithLabelValues(resolution).Inc()
}

func (r *Recorder) IncCompensation() {
	if r == nil {
		return
	}
	r.compensations.Inc()
}

func (r *Recorder) IncPartialFailure() {
	if r == nil {
		return
	}
	r.partialFailures.Inc()
}

type logFunc func(v ...interface{})

func (l logFunc) Println(v ...interface{}) {
	l(v...)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer, logger *zap.Logger) http.Handler {
	sugar := logger.Named("metrics").Sugar()
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      logFunc(sugar.Warn),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
