package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lukelektro/storefront-api/internal/config"
	"github.com/lukelektro/storefront-api/internal/fulfillment"
	kafkax "github.com/lukelektro/storefront-api/internal/kafka"
	"github.com/lukelektro/storefront-api/internal/orders"
	"github.com/lukelektro/storefront-api/internal/payment"
	"github.com/lukelektro/storefront-api/internal/postgres"
	"github.com/lukelektro/storefront-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &fulfillment.Service{
		Orders: &orders.Repo{DB: db},
		Dedup:  &redisx.Deduper{RDB: rdb, Service: "fulfillment"},
	}

	// Consumer
	group := getenv("FULFILLMENT_GROUP", "fulfillment-svc")
	workers := mustAtoi(os.Getenv("FULFILLMENT_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, payment.TopicPaymentConfirmed, workers)

	go func() {
		log.Printf("fulfillment consumer started: group=%s topic=%s workers=%d",
			group, payment.TopicPaymentConfirmed, workers)
		if err := cons.Start(ctx, svc.HandlePaymentConfirmed); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown, or exit when the consumer dies
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Println("shutting down consumer...")
		cancel()
	case <-ctx.Done():
	}
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
