package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ec-analytics/internal/config"
	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/example/ec-analytics/internal/seed"
	"go.uber.org/zap"
)

func main() {
	defaults := seed.DefaultCounts()
	envFile := flag.String("env-file", ".env", "optional dotenv file read before the environment")
	products := flag.Int("products", defaults.Products, "number of products")
	customers := flag.Int("customers", defaults.Customers, "number of customers")
	orders := flag.Int("orders", defaults.Orders, "number of orders")
	items := flag.Int("items", defaults.Items, "number of order items")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("[SEEDER] invalid configuration: %v", err)
	}
	if cfg.Env == config.EnvProd {
		log.Fatal("[SEEDER] refusing to truncate tables with ENV=prod")
	}

	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("[SEEDER] failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.ConnectPostgres(ctx, cfg.Postgres.URL, store.DefaultPoolConfig())
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	seeder := seed.NewSeeder(db, seed.NewGenerator(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))), logger)
	counts := seed.Counts{Products: *products, Customers: *customers, Orders: *orders, Items: *items}
	if err := seeder.Run(ctx, counts); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
}
