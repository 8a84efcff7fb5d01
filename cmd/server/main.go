package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"custodia/internal/account/handler"
	"custodia/internal/account/metrics"
	"custodia/internal/account/service"
	"custodia/internal/account/store"
	"custodia/internal/platform/config"
	"custodia/internal/platform/httpserver"
	"custodia/internal/platform/logger"
	"custodia/internal/platform/middleware"
	"custodia/internal/platform/postgres"

	httpmetrics "custodia/internal/platform/metrics"
	"custodia/pkg/platform/audit"
	"custodia/pkg/platform/audit/publisher"
	"custodia/pkg/platform/middleware/requesttime"

	memorystore "custodia/internal/account/store/memory"
	postgresstore "custodia/internal/account/store/postgres"
	platformredis "custodia/internal/platform/redis"
	kafkaaudit "custodia/pkg/platform/audit/kafka"
	memoryaudit "custodia/pkg/platform/audit/store/memory"
	redisaudit "custodia/pkg/platform/audit/store/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accountStore, cleanupStore, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanupStore()

	sink, cleanupSink, err := buildAuditSink(ctx, cfg)
	if err != nil {
		log.Error("audit sink init failed", "error", err)
		os.Exit(1)
	}
	defer cleanupSink()

	auditPublisher := publisher.NewPublisher(sink, publisher.WithAsyncBuffer(256))
	defer auditPublisher.Close()

	svc := service.New(accountStore,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(metrics.New()),
		service.WithProofTTL(cfg.ProofTTL),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requesttime.Middleware)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(httpmetrics.New().Middleware)

	handler.New(svc, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting custodia", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildStore selects Postgres when a DSN is configured and falls back to the
// in-memory store otherwise.
func buildStore(ctx context.Context, cfg config.Server) (store.Store, func(), error) {
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return memorystore.New(), func() {}, nil
	}

	pgStore := postgresstore.New(db)
	if err := pgStore.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pgStore, func() { db.Close() }, nil
}

// buildAuditSink prefers Kafka, then Redis, then the in-process store.
func buildAuditSink(ctx context.Context, cfg config.Server) (audit.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := kafkaaudit.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, err
		}
		if err := kafkaSink.EnsureTopic(ctx, 1, 1); err != nil {
			kafkaSink.Close()
			return nil, nil, err
		}
		return kafkaSink, kafkaSink.Close, nil
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if redisClient != nil {
		return redisaudit.New(redisClient.Client), func() { redisClient.Close() }, nil
	}

	return memoryaudit.NewInMemoryStore(), func() {}, nil
}
