// Package main runs the character store: the HTTP endpoint the sheet editor
// loads from and saves to.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/observability"
	"github.com/cory-johannsen/charsheet/internal/server"
	"github.com/cory-johannsen/charsheet/internal/storage/postgres"
	"github.com/cory-johannsen/charsheet/internal/storage/redis"
	"github.com/cory-johannsen/charsheet/internal/storage/sqlite"
	"github.com/cory-johannsen/charsheet/internal/store"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrate := flag.Bool("migrate", false, "apply pending migrations before serving (postgres backend)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting character store",
		zap.String("backend", cfg.Store.Backend),
		zap.String("addr", cfg.Store.Addr()),
	)

	ctx := context.Background()
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing, "charstore", logger)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	lifecycle := server.NewLifecycle(logger)

	var repo store.Repository
	switch cfg.Store.Backend {
	case "postgres":
		if *migrate {
			if err := postgres.Migrate(cfg.Database); err != nil {
				logger.Fatal("migrating database", zap.Error(err))
			}
		}
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		repo = postgres.NewSheetRepository(pool.DB(), store.DefaultSlot)

		done := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() {
				close(done)
				pool.Close()
			},
		})
	case "sqlite":
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			logger.Fatal("opening sqlite store", zap.String("path", cfg.Store.SQLitePath), zap.Error(err))
		}
		defer db.Close()
		logger.Info("sqlite store opened", zap.String("path", cfg.Store.SQLitePath))
		repo = sqlite.NewSheetRepository(db, store.DefaultSlot)
	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		defer client.Close()
		logger.Info("redis connected",
			zap.String("addr", cfg.Redis.Addr),
			zap.String("key", cfg.Redis.Key),
		)
		redisRepo := redis.NewSheetRepository(client, cfg.Redis.Key)
		repo = redisRepo

		done := make(chan struct{})
		lifecycle.Add("redis", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return nil
					case <-ticker.C:
						if err := redisRepo.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("redis health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() { close(done) },
		})
	default:
		repo = store.NewMemoryRepository()
	}

	path := routePath(cfg.Gateway.Endpoint)
	srv := &http.Server{
		Addr:         cfg.Store.Addr(),
		Handler:      store.NewHandler(repo, logger).Routes(path),
		ReadTimeout:  cfg.Store.ReadTimeout,
		WriteTimeout: cfg.Store.WriteTimeout,
	}
	lifecycle.Add("http", server.NewHTTPService(srv, cfg.Store.ShutdownTimeout, logger))

	logger.Info("character store initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("path", path),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// routePath serves the character at the same path the editor is configured
// to call, so one configuration file drives both tools.
func routePath(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
