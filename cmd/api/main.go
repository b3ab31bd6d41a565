package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/karangue/heatwave-alert-service/internal/adapter/httpapi"
	"github.com/karangue/heatwave-alert-service/internal/adapter/rediscache"
	"github.com/karangue/heatwave-alert-service/internal/config"
	"github.com/karangue/heatwave-alert-service/internal/observability"
	"github.com/karangue/heatwave-alert-service/internal/storage"
)

// poolReadiness reports readiness from database connectivity.
type poolReadiness struct {
	pool *pgxpool.Pool
}

func (p *poolReadiness) CheckReadiness(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := storage.NewStore(pool)

	var cache httpapi.SnapshotReader
	if cfg.RedisAddr != "" {
		redisCache := rediscache.New(cfg.RedisAddr, cfg.RedisCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, serving from store only", "error", err)
		} else {
			cache = redisCache
			defer redisCache.Close()
			logger.Info("snapshot cache enabled", "addr", cfg.RedisAddr)
		}
	}

	api := httpapi.NewAPI(store, cache, cfg.HistoryWindow, clockwork.NewRealClock(), logger)
	srv := httpapi.NewServer(cfg.HTTPAddr, &poolReadiness{pool: pool}, api, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
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
