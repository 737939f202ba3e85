package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lukelektro/storefront-api/internal/auth"
	"github.com/lukelektro/storefront-api/internal/catalog"
	"github.com/lukelektro/storefront-api/internal/config"
	"github.com/lukelektro/storefront-api/internal/httpx"
	kafkax "github.com/lukelektro/storefront-api/internal/kafka"
	"github.com/lukelektro/storefront-api/internal/orders"
	"github.com/lukelektro/storefront-api/internal/payment"
	"github.com/lukelektro/storefront-api/internal/postgres"
	"github.com/lukelektro/storefront-api/internal/redisx"
	"github.com/lukelektro/storefront-api/internal/upload"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for payment confirmations
	prod := kafkax.NewProducer(cfg.KafkaBrokers, payment.TopicPaymentConfirmed, 1024)
	prod.Start()

	// Image store
	images, err := upload.NewStore(cfg.ImageDir)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	// Repos, services, handlers
	router := httpx.NewRouter(cfg.AllowedOrigins, cfg.ImageDir)
	cache := &redisx.Cache{RDB: rdb}

	oh := &httpx.OrdersHandler{Orders: &orders.Repo{DB: db}}
	oh.Register(router)

	ch := &httpx.CatalogHandler{Repo: &catalog.Repo{DB: db}, Cache: cache}
	ch.Register(router)

	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	ah := &httpx.AuthHandler{Service: &auth.Service{Store: &auth.Repo{DB: db}, Tokens: tokens}}
	ah.Register(router)

	uh := &httpx.UploadHandler{Store: images}
	uh.Register(router)

	ph := &httpx.PaymentHandler{
		Orders:   &orders.Repo{DB: db},
		Gateway:  payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey),
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	ph.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // flush pending events
	prod.WaitClosed() // drain
}
