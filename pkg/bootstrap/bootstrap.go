// Package bootstrap opens the stores and AWS clients shared by the HTTP
// service and the lambdas.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/wallet-kiosk/pkg/cache"
	"github.com/chris/wallet-kiosk/pkg/config"
	"github.com/chris/wallet-kiosk/pkg/notify"
	"github.com/chris/wallet-kiosk/pkg/scheduler"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/chris/wallet-kiosk/pkg/storage/dynamodb"
	"github.com/chris/wallet-kiosk/pkg/storage/memory"
	"github.com/chris/wallet-kiosk/pkg/storage/postgres"
	"go.uber.org/zap"
)

// AWSConfig loads the default AWS SDK configuration.
func AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// Stores holds the inventory and ledger stores of the selected backend.
type Stores struct {
	Inventory storage.InventoryStore
	Ledger    storage.LedgerStore
	closers   []func() error
}

// OpenStores opens PostgreSQL and DynamoDB for the aws backend, or fresh
// in-memory stores for the memory backend.
func OpenStores(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory stores; data is lost on exit")
		return &Stores{
			Inventory: memory.NewInventoryStore(),
			Ledger:    memory.NewLedgerStore(),
		}, nil
	}

	pg, err := postgres.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		return nil, errors.Join(err, pg.Close())
	}

	return &Stores{
		Inventory: pg,
		Ledger:    dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.CustomersTable, cfg.LedgerTable),
		closers:   []func() error{pg.Close},
	}, nil
}

// Close releases the connections held by the stores.
func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Alerts returns an SNS publisher when a topic is configured.
func Alerts(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) notify.Publisher {
	if cfg.SNSAlertsTopicARN == "" {
		logger.Warn("SNS_ALERTS_TOPIC_ARN not set, operator alerts are disabled")
		return &notify.NoOpPublisher{}
	}
	return notify.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.SNSAlertsTopicARN)
}

// Scheduler returns an SQS scheduler when a queue is configured, or nil.
func Scheduler(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) scheduler.Scheduler {
	if cfg.SQSQueueURL == "" {
		logger.Warn("SQS_QUEUE_URL not set, flagged settlements wait for the stuck sweep")
		return nil
	}
	return scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
}

// ProductCache connects to Redis when REDIS_URL is set. It returns a nil cache
// otherwise. The returned func closes the connection.
func ProductCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cache.ProductCache, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("product cache enabled", zap.Duration("ttl", cfg.ProductCacheTTL))
	return cache.NewProductCache(client, cfg.ProductCacheTTL), func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close Redis client", zap.Error(err))
		}
	}, nil
}
