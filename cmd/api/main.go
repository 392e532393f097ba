package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/addresses"
	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/ariefcatur/go-food-orders/internal/checkout"
	"github.com/ariefcatur/go-food-orders/internal/config"
	"github.com/ariefcatur/go-food-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/lifecycle"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/ariefcatur/go-food-orders/internal/reviews"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{Service: "food-api"}).Error(context.Background(), "config.load_failed", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: cfg.ServiceName, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresPool)
	if err != nil {
		log.Error(ctx, "db.connect_failed", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis
	rdb, err := redisx.New(ctx, cfg.RedisAddr)
	if err != nil {
		log.Error(ctx, "redis.connect_failed", err)
		os.Exit(1)
	}
	defer rdb.Close()
	cache := redisx.NewCache(rdb)

	// Kafka producer, satu writer untuk semua topic order
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(ctx)

	restSvc := &restaurants.Service{Repo: &restaurants.Repo{DB: db}}
	cartSvc := &cart.Service{Store: &cart.RedisStore{RDB: rdb}, Menu: restSvc}
	addrSvc := &addresses.Service{Repo: &addresses.Repo{DB: db}}
	orderSvc := &orders.Service{
		Repo:        &orders.Repo{DB: db},
		Cache:       cache,
		Producer:    prod,
		Jobs:        &lifecycle.RedisStore{RDB: rdb},
		Log:         log,
		ServiceName: cfg.ServiceName,
		ETA:         cfg.Lifecycle.EstimatedDelivery,
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:         log,
		Restaurants: restSvc,
		Filters:     &restaurants.FilterStore{Cache: cache},
		Carts:       cartSvc,
		Checkout:    &checkout.Service{Carts: cartSvc, Addresses: addrSvc, Orders: orderSvc, Log: log},
		Orders:      orderSvc,
		Addresses:   addrSvc,
		Reviews:     &reviews.Service{Repo: &reviews.Repo{DB: db}, Orders: orderSvc},
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.HTTPAddr), "http.listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http.listen_failed", err)
			cancel()
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info(ctx, "http.shutting_down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
}
