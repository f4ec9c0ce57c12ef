package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/wallet-kiosk/pkg/bootstrap"
	"github.com/chris/wallet-kiosk/pkg/config"
	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/settlement"
	"go.uber.org/zap"
)

// Sweeper reconciles every stuck settlement.
type Sweeper interface {
	ReconcileStuck(ctx context.Context, maxAge time.Duration) (settlement.Summary, error)
}

var (
	sweeper   Sweeper
	threshold time.Duration
	logger    *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx := context.Background()
	awsCfg, err := bootstrap.AWSConfig(ctx)
	if err != nil {
		logger.Fatal("failed to load AWS config", zap.Error(err))
	}
	stores, err := bootstrap.OpenStores(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}

	threshold = cfg.StuckSettlementThreshold
	opts := []settlement.Option{
		settlement.WithAlerts(bootstrap.Alerts(cfg, awsCfg, logger)),
		settlement.WithLogger(logger.Named("reconciler")),
		settlement.WithLedgerTimeout(cfg.LedgerTimeout),
	}
	// The client lives as long as the container.
	productCache, _, err := bootstrap.ProductCache(ctx, cfg, logger)
	if err != nil {
		logger.Warn("product cache unavailable, listings refresh on expiry", zap.Error(err))
	}
	if productCache != nil {
		opts = append(opts, settlement.WithCatalogCache(productCache))
	}
	sweeper = settlement.NewReconciler(stores.Inventory, stores.Ledger, opts...)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	logger.Info("starting sweep of stuck settlements", zap.Duration("threshold", threshold))

	summary, err := sweeper.ReconcileStuck(ctx, threshold)
	if err != nil {
		// Failures were alerted per settlement.
		logger.Error("sweep finished with failures", zap.Int("failed", summary.Failed), zap.Error(err))
		return err
	}

	logger.Info("sweep finished",
		zap.Int("completed", summary.Completed),
		zap.Int("aborted", summary.Aborted),
		zap.Int("closed", summary.Closed),
	)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
