package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/bootstrap"
	"github.com/chris/wallet-kiosk/pkg/config"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/handlers"
	"github.com/chris/wallet-kiosk/pkg/handlers/respond"
	"github.com/chris/wallet-kiosk/pkg/logging"
	"github.com/chris/wallet-kiosk/pkg/metrics"
	kioskmw "github.com/chris/wallet-kiosk/pkg/middleware"
	"github.com/chris/wallet-kiosk/pkg/settlement"
	"github.com/chris/wallet-kiosk/pkg/topup"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// The kiosk UI reads amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := bootstrap.AWSConfig(ctx)
	if err != nil {
		logger.Fatal("failed to load AWS config", zap.Error(err))
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close stores", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	dirOpts := []directory.Option{directory.WithLogger(logger.Named("directory"))}
	settleOpts := []settlement.Option{
		settlement.WithScheduler(bootstrap.Scheduler(cfg, awsCfg, logger)),
		settlement.WithAlerts(bootstrap.Alerts(cfg, awsCfg, logger)),
		settlement.WithMetrics(recorder),
		settlement.WithLogger(logger.Named("settlement")),
		settlement.WithLedgerTimeout(cfg.LedgerTimeout),
	}

	productCache, closeCache, err := bootstrap.ProductCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer closeCache()
	if productCache != nil {
		dirOpts = append(dirOpts, directory.WithCache(productCache))
		settleOpts = append(settleOpts, settlement.WithCatalogCache(productCache))
	}

	dir := directory.NewService(stores.Inventory, stores.Ledger, dirOpts...)
	coordinator := settlement.NewCoordinator(stores.Inventory, stores.Ledger, settleOpts...)
	topUps := topup.NewService(stores.Ledger,
		topup.WithMetrics(recorder),
		topup.WithLogger(logger.Named("topup")),
		topup.WithTimeout(cfg.LedgerTimeout),
	)

	handler := handlers.NewApiHandler(coordinator, dir, dir, topUps, stores.Inventory)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(kioskmw.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", metrics.Handler(registry, logger))

	api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter:       router,
		ErrorHandlerFunc: respond.ParamError,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
