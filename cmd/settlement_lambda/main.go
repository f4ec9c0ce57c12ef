package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/wallet-kiosk/pkg/bootstrap"
	"github.com/chris/wallet-kiosk/pkg/config"
	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/scheduler"
	"github.com/chris/wallet-kiosk/pkg/settlement"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"go.uber.org/zap"
)

// Reconciler closes one flagged settlement.
type Reconciler interface {
	Reconcile(ctx context.Context, settlementID string) (settlement.Resolution, error)
}

var (
	reconciler Reconciler
	logger     *zap.Logger
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

	// Initialize dependencies once per container.
	ctx := context.Background()
	awsCfg, err := bootstrap.AWSConfig(ctx)
	if err != nil {
		logger.Fatal("failed to load AWS config", zap.Error(err))
	}
	stores, err := bootstrap.OpenStores(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}

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
	reconciler = settlement.NewReconciler(stores.Inventory, stores.Ledger, opts...)
}

// HandleRequest reconciles the settlements named by SQS messages. Failed
// messages are reported back so that only they are retried.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		var msg scheduler.ReconciliationMessage
		if err := json.Unmarshal([]byte(message.Body), &msg); err != nil {
			// Malformed bodies are dropped.
			logger.Error("failed to unmarshal reconciliation message", zap.String("message_id", message.MessageId), zap.Error(err))
			continue
		}

		resolution, err := reconciler.Reconcile(ctx, msg.SettlementID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Warn("settlement not found, dropping message", zap.String("settlement_id", msg.SettlementID))
			continue
		}
		if err != nil {
			logger.Error("failed to reconcile settlement",
				zap.String("message_id", message.MessageId),
				zap.String("settlement_id", msg.SettlementID),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}

		logger.Info("settlement reconciled",
			zap.String("settlement_id", msg.SettlementID),
			zap.String("resolution", string(resolution)),
			zap.String("reason", msg.Reason),
		)
	}

	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
