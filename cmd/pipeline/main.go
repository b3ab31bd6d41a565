package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/karangue/heatwave-alert-service/internal/adapter/httpapi"
	kafkaadapter "github.com/karangue/heatwave-alert-service/internal/adapter/kafka"
	"github.com/karangue/heatwave-alert-service/internal/adapter/openmeteo"
	"github.com/karangue/heatwave-alert-service/internal/adapter/rediscache"
	"github.com/karangue/heatwave-alert-service/internal/config"
	"github.com/karangue/heatwave-alert-service/internal/observability"
	"github.com/karangue/heatwave-alert-service/internal/pipeline"
	"github.com/karangue/heatwave-alert-service/internal/scheduler"
	"github.com/karangue/heatwave-alert-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := storage.RunMigrations(ctx, pool); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(pool)

	// Snapshot cache (feature-flagged via REDIS_ADDR).
	var cache pipeline.SnapshotCache
	if cfg.RedisAddr != "" {
		redisCache := rediscache.New(cfg.RedisAddr, cfg.RedisCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, snapshot caching disabled", "error", err)
		} else {
			cache = redisCache
			defer redisCache.Close()
			logger.Info("snapshot caching enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisCacheTTL)
		}
	} else {
		logger.Info("snapshot caching disabled")
	}

	// Alert event publishing (feature-flagged via KAFKA_BROKERS).
	var publisher pipeline.AlertPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		publisher = kafkaPublisher
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		logger.Info("alert event publishing enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("alert event publishing disabled")
	}

	fetcher := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, logger)
	fanout := pipeline.NewFanout(store, store, store, publisher, logger, metrics)
	evaluator := pipeline.NewEvaluator(store, fanout, cfg.AlertTTL, logger, metrics)
	ingestor := pipeline.NewIngestor(store, fetcher, store, cache, evaluator, clock, logger, metrics)
	sweeper := pipeline.NewSweeper(store, cfg.ReadingRetention, clock, logger, metrics)

	sched := scheduler.New(cfg.JobTimeout, clock, logger, metrics)
	sched.Add(scheduler.Job{Name: "ingest", Interval: cfg.FetchInterval, Run: ingestor.RunOnce})
	sched.Add(scheduler.Job{Name: "sweep-readings", Interval: cfg.ReadingSweepInterval, Run: sweeper.SweepReadings})
	sched.Add(scheduler.Job{Name: "sweep-alerts", Interval: cfg.AlertSweepInterval, Run: sweeper.SweepAlerts})

	srv := httpapi.NewServer(cfg.HTTPAddr, ingestor, nil, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
