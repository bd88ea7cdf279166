package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SWGEvolve/swg-graphql/internal/config"
	dbredis "github.com/SWGEvolve/swg-graphql/internal/db/redis"
	logpkg "github.com/SWGEvolve/swg-graphql/internal/logger"
	"github.com/SWGEvolve/swg-graphql/internal/metrics"
	"github.com/SWGEvolve/swg-graphql/internal/repository/gameserver"
	indexrepo "github.com/SWGEvolve/swg-graphql/internal/repository/index"
	"github.com/SWGEvolve/swg-graphql/internal/repository/objcache"
	chiTransport "github.com/SWGEvolve/swg-graphql/internal/transport/chi"
	batchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/batch"
	healthuc "github.com/SWGEvolve/swg-graphql/internal/usecase/health"
	searchuc "github.com/SWGEvolve/swg-graphql/internal/usecase/search"
	"github.com/SWGEvolve/swg-graphql/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting swg search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("index_addrs", cfg.Index.Addrs),
		zap.String("index", cfg.Index.Name),
		zap.Bool("search_enabled", cfg.Search.Enabled),
	)

	esClient, err := indexrepo.NewClient(indexrepo.Config{
		Addrs:    cfg.Index.Addrs,
		Username: cfg.Index.Username,
		Password: cfg.Index.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create index client", zap.Error(err))
	}
	indexRepo := indexrepo.New(esClient, cfg.Index.Name)

	store := gameserver.New(
		cfg.GameServer.BaseURL,
		time.Duration(cfg.GameServer.TimeoutSec)*time.Second,
	)

	// Optional object lookup cache in front of the store
	var objects searchuc.ObjectService = store
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		kv, err := dbredis.NewStore(dbredis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kv.Close()

		objects = objcache.New(store, kv, time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
		cachePinger = kv
		logger.Info("Object lookup cache enabled", zap.Strings("cache_addrs", cfg.Cache.Addrs))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	searchSvc := searchuc.New(indexRepo, objects, store, cfg.Search.Enabled, logger)

	batchSvc, err := batchuc.New(store, cfg.Batch.ChunkSize, cfg.Batch.Concurrency, logger)
	if err != nil {
		logger.Fatal("Failed to create batch service", zap.Error(err))
	}
	defer batchSvc.Close()

	healthSvc := healthuc.New(indexRepo, cachePinger)

	server := chiTransport.NewServer(searchSvc, batchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiTransport.BearerAuthMiddleware(cfg.HTTP.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
