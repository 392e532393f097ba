package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/config"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/lifecycle"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{Service: "food-lifecycle"}).Error(context.Background(), "config.load_failed", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: cfg.ServiceName + "-lifecycle", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(context.Background())

	store := &lifecycle.RedisStore{RDB: rdb, Lease: time.Minute}
	metrics := lifecycle.NewMetrics(prometheus.DefaultRegisterer)
	orderSvc := &orders.Service{
		Repo:        &orders.Repo{DB: db},
		Cache:       redisx.NewCache(rdb),
		Producer:    prod,
		Jobs:        store,
		Log:         log,
		ServiceName: cfg.ServiceName + "-lifecycle",
		ETA:         cfg.Lifecycle.EstimatedDelivery,
	}
	handler := &lifecycle.Handler{Store: store, Redis: rdb, Delays: cfg.Lifecycle, Log: log, Metrics: metrics}
	sched := &lifecycle.Scheduler{
		Store:    store,
		Orders:   orderSvc,
		Log:      log,
		Metrics:  metrics,
		Interval: cfg.Lifecycle.PollInterval,
		Batch:    100,
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.Lifecycle.Group, orders.TopicOrderPlaced, cfg.Lifecycle.Workers, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Lifecycle.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(log.WithFields(gctx, map[string]any{"group": cfg.Lifecycle.Group, "topic": orders.TopicOrderPlaced}), "lifecycle.consumer_started")
		return cons.Start(gctx, handler.HandleOrderPlaced)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error(ctx, "lifecycle.exit", err)
	}
	prod.Close()
	prod.WaitClosed()
}
