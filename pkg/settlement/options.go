package settlement

import (
	"context"
	"time"

	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/metrics"
	"github.com/chris/wallet-kiosk/pkg/notify"
	"github.com/chris/wallet-kiosk/pkg/scheduler"
	"go.uber.org/zap"
)

const (
	defaultLedgerTimeout  = 3 * time.Second
	defaultReconcileDelay = time.Minute
)

// CatalogCache is told when stock levels change so cached listings can be
// dropped.
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}

// settings are shared by the Coordinator and the Reconciler.
type settings struct {
	scheduler      scheduler.Scheduler
	catalog        CatalogCache
	alerts         notify.Publisher
	metrics        *metrics.Recorder
	logger         *zap.Logger
	ledgerTimeout  time.Duration
	reconcileDelay time.Duration
}

// Option configures a Coordinator or a Reconciler.
type Option func(*settings)

func newSettings(opts []Option) settings {
	s := settings{
		alerts:         &notify.NoOpPublisher{},
		logger:         zap.NewNop(),
		ledgerTimeout:  defaultLedgerTimeout,
		reconcileDelay: defaultReconcileDelay,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithScheduler enqueues flagged settlements for reconciliation.
func WithScheduler(sch scheduler.Scheduler) Option {
	return func(s *settings) { s.scheduler = sch }
}

// WithAlerts notifies operators about settlements that need attention.
func WithAlerts(p notify.Publisher) Option {
	return func(s *settings) { s.alerts = p }
}

// WithCatalogCache invalidates cached catalog listings whenever stock is
// reserved or released.
func WithCatalogCache(c CatalogCache) Option {
	return func(s *settings) { s.catalog = c }
}

// WithMetrics records settlement and reconciliation outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *settings) { s.metrics = r }
}

// WithLogger sets the logger; nil disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = logging.OrNop(l) }
}

// WithLedgerTimeout bounds every ledger call.
func WithLedgerTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.ledgerTimeout = d
		}
	}
}

// WithReconcileDelay sets how long a flagged settlement waits in the queue
// before it is reconciled.
func WithReconcileDelay(d time.Duration) Option {
	return func(s *settings) { s.reconcileDelay = d }
}

// stockChanged drops cached listings after stock moved. Failures only cost
// freshness until the cache entry expires.
func (s *settings) stockChanged(ctx context.Context, settlementID string) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.String("settlement_id", settlementID), zap.Error(err))
	}
}
