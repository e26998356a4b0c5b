package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/example/ec-analytics/internal/api"
	"github.com/example/ec-analytics/internal/api/middleware"
	"github.com/example/ec-analytics/internal/auth"
	"github.com/example/ec-analytics/internal/config"
	"github.com/example/ec-analytics/internal/infrastructure/kafka"
	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/example/ec-analytics/internal/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env-file", ".env", "optional dotenv file read before the environment")
	flag.Parse()

	// Money leaves the service as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load(*envFile)
	if err == nil {
		err = cfg.ValidateAPI()
	}
	if err != nil {
		log.Fatalf("[API] invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("[API] failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("analytics api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier, err := auth.NewAPIKeyVerifier(cfg.Auth.APIKey, cfg.Auth.APIKeyHash)
	if err != nil {
		return err
	}

	db, err := store.ConnectPostgres(ctx, cfg.Postgres.URL, store.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres")

	analyticsStore := store.NewBreakerAnalyticsStore(
		store.NewPostgresAnalyticsStore(db),
		store.BreakerConfig{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		},
		logger,
	)

	metrics := middleware.NewMetrics()
	metrics.Registry().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "analytics",
		Name:      "store_breaker_open",
		Help:      "1 while the analytics store circuit breaker is open.",
	}, func() float64 {
		if analyticsStore.State() == "open" {
			return 1
		}
		return 0
	}))

	events := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("failed to flush usage events", zap.Error(err))
		}
	}()
	if _, ok := events.(kafka.NopPublisher); ok {
		logger.Info("usage events disabled, KAFKA_BROKERS is empty")
	} else {
		logger.Info("publishing usage events",
			zap.String("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	handlers := api.NewHandlers(query.NewHandler(analyticsStore), events, logger)
	router := api.NewRouter(api.RouterConfig{
		Handlers:       handlers,
		Verifier:       verifier,
		Metrics:        metrics,
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

