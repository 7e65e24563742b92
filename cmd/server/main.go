package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"knights/internal/knight"
	knightMetrics "knights/internal/knight/metrics"
	knightService "knights/internal/knight/service"
	"knights/internal/knight/store"
	"knights/internal/knight/store/cache"
	"knights/internal/knight/store/memory"
	knightPostgres "knights/internal/knight/store/postgres"
	"knights/internal/platform/config"
	"knights/internal/platform/httpserver"
	"knights/internal/platform/logger"
	"knights/internal/platform/metrics"
	"knights/internal/platform/middleware"
	"knights/internal/platform/postgres"
	platformRedis "knights/internal/platform/redis"
)

// main wires the knight service behind the HTTP router and keeps the server
// lifecycle small. Business logic lives in internal/knight.
func main() {
	if err := run(); err != nil {
		slog.Error("knights server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, checks, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	backend, cacheChecks, closeCache, err := withCache(ctx, cfg, log, backend)
	if err != nil {
		return err
	}
	defer closeCache()
	checks = append(checks, cacheChecks...)

	svc, err := knight.NewService(backend, log, knightMetrics.New())
	if err != nil {
		return fmt.Errorf("init knight service: %w", err)
	}

	httpMetrics := metrics.New()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log, httpMetrics))
	r.Use(middleware.Latency(httpMetrics))

	r.Get("/healthz", httpserver.Healthz(checks...))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)
		knight.NewHandler(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)
	log.Info("starting knights", "addr", cfg.Addr, "store", cfg.Store)
	return httpserver.Run(ctx, log, srv, cfg.ShutdownTimeout)
}

// buildStore opens the configured backend and returns its readiness checks
// and a close func.
func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger) (knightService.Store, []httpserver.ReadinessCheck, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pgCfg, err := postgres.ConfigFromEnv()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load database config: %w", err)
		}
		db, err := postgres.Open(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		s := knightPostgres.New(db)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		checks := []httpserver.ReadinessCheck{{Name: "postgres", Check: pingCheck(db)}}
		return s, checks, func() { _ = db.Close() }, nil

	default:
		s := memory.New()
		if cfg.Seed > 0 {
			knights, err := store.GenerateKnights(cfg.Seed, time.Now().UTC())
			if err != nil {
				return nil, nil, nil, err
			}
			if _, err := store.Seed(ctx, s, knights); err != nil {
				return nil, nil, nil, err
			}
			log.Info("seeded memory store", "knights", len(knights))
		}
		return s, nil, func() {}, nil
	}
}

// withCache puts a Redis read-through cache in front of backend when
// REDIS_URL is set.
func withCache(ctx context.Context, cfg config.Server, log *slog.Logger, backend knightService.Store) (knightService.Store, []httpserver.ReadinessCheck, func(), error) {
	redisCfg, err := platformRedis.ConfigFromEnv()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load redis config: %w", err)
	}
	client, err := platformRedis.New(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return backend, nil, func() {}, nil
	}

	log.Info("knight cache enabled", "ttl", cfg.CacheTTL)
	cached := cache.New(backend, client, cache.WithTTL(cfg.CacheTTL), cache.WithLogger(log))
	checks := []httpserver.ReadinessCheck{{Name: "redis", Check: client.Health}}
	return cached, checks, func() { _ = client.Close() }, nil
}

func pingCheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
}
