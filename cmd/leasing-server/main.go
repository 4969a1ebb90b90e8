package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/leasing-calc/internal/logging"
	"github.com/iwvelando/leasing-calc/internal/server"
	"github.com/iwvelando/leasing-calc/internal/store"
	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	configLocation := flag.String("config", envOr("LEASING_SERVER_CONFIG", constants.DefaultServerConfigFile), "path to server configuration file")
	logLevel := flag.String("log-level", os.Getenv("LEASING_LOG_LEVEL"), "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	applyEnv(cfg)

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sqliteStore, err := store.NewSQLiteStore(logger, cfg.Database)
	if err != nil {
		logger.Fatal("failed to open leasing store",
			zap.String("op", "main"),
			zap.String("database", cfg.Database),
			zap.Error(err),
		)
	}
	defer func() {
		if err := sqliteStore.Close(); err != nil {
			logger.Warn("failed to close leasing store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	cache, closeCache := openCache(logger, cfg)
	defer closeCache()

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: server.NewHandler(logger, server.Options{
			MaxUploadSize:  cfg.UploadSizeBytes(),
			Version:        version,
			AllowedOrigins: cfg.AllowedOrigins,
			Store:          sqliteStore,
			Cache:          cache,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("leasing API listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", zap.String("op", "main"), zap.Error(err))
		return
	case sig := <-quit:
		logger.Info("shutting down", zap.String("op", "main"), zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown", zap.String("op", "main"), zap.Error(err))
	}
	logger.Info("server exited", zap.String("op", "main"))
}

// openCache connects to redis when an address is configured and reachable,
// falling back to an in-process cache otherwise.
func openCache(logger *zap.Logger, cfg *server.Config) (store.CacheRepository, func()) {
	if cfg.RedisAddress == "" {
		return store.NewMemoryCache(), func() {}
	}

	redisCache := store.NewRedisCache(cfg.RedisAddress, cfg.CacheExpiry())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, caching reports in memory",
			zap.String("op", "main"),
			zap.String("address", cfg.RedisAddress),
			zap.Error(err),
		)
		_ = redisCache.Close()
		return store.NewMemoryCache(), func() {}
	}

	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.String("op", "main"), zap.Error(err))
		}
	}
}

func applyEnv(cfg *server.Config) {
	if addr := os.Getenv("LEASING_ADDRESS"); addr != "" {
		cfg.Address = addr
	}
	if db := os.Getenv("LEASING_DATABASE"); db != "" {
		cfg.Database = db
	}
	if redisAddr := os.Getenv("LEASING_REDIS_ADDRESS"); redisAddr != "" {
		cfg.RedisAddress = redisAddr
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
