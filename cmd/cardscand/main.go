package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/cardscan/internal/async"
	"github.com/joseph-ayodele/cardscan/internal/cache"
	"github.com/joseph-ayodele/cardscan/internal/card"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/export"
	"github.com/joseph-ayodele/cardscan/internal/ingest"
	"github.com/joseph-ayodele/cardscan/internal/pipeline"
	repo "github.com/joseph-ayodele/cardscan/internal/repository"
	"github.com/joseph-ayodele/cardscan/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database is optional: without it the server still extracts, it just
	// does not persist or export.
	var (
		db       *sql.DB
		contacts repo.ContactRepository
		exporter *export.Service
	)
	if cfg.Database.DSN != "" {
		var err error
		db, err = repo.Open(ctx, repo.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repo.Close(db, logger)

		if err := repo.Migrate(ctx, db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		contacts = repo.NewContactRepository(db, logger)
		exporter = export.NewService(contacts, logger)
	} else {
		logger.Warn("CARDSCAN_DB_URL not set, running without storage")
	}

	// Redis is optional: without it every extract recomputes.
	var resultCache *cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, running without cache", "error", err)
		} else {
			resultCache = cache.NewCache(rdb)
			defer func() {
				if cerr := rdb.Close(); cerr != nil {
					logger.Warn("close redis", "error", cerr)
				}
			}()
		}
	}

	parser := card.NewParser(logger)

	// Drop-folder watcher feeds the processing queue when configured.
	var queue *async.ProcessorQueue
	if cfg.Ingest.WatchDir != "" {
		processor := pipeline.NewProcessor(parser, contacts, logger)
		queue = async.NewProcessorQueue(processor, logger,
			async.WithWorkers(cfg.Ingest.Workers),
			async.WithQueueSize(512),
			async.WithProcessTimeout(time.Minute),
		)
		events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.WatchDir},
			InitialScan: true,
			Debounce:    cfg.Ingest.Debounce,
		})
		if err != nil {
			logger.Error("failed to start watcher", "dir", cfg.Ingest.WatchDir, "error", err)
			os.Exit(1)
		}
		go func() {
			for events != nil || watchErrs != nil {
				select {
				case path, ok := <-events:
					if !ok {
						events = nil
						continue
					}
					if err := queue.Enqueue(ctx, async.Job{Path: path}); err != nil {
						logger.Warn("enqueue card failed", "path", path, "error", err)
					}
				case werr, ok := <-watchErrs:
					if !ok {
						watchErrs = nil
						continue
					}
					logger.Error("watcher error", "error", werr)
				}
			}
		}()
		logger.Info("watching for card scans", "dir", cfg.Ingest.WatchDir)
	}

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.New(parser, contacts, exporter, resultCache, cfg.Cache.TTL, db, logger).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("cardscand listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if queue != nil {
		queue.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
