package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tripspark/logsvc/internal/application/ingest"
	"github.com/tripspark/logsvc/internal/application/logsvc"
	"github.com/tripspark/logsvc/internal/config"
	"github.com/tripspark/logsvc/internal/ports"
	eventsmemory "github.com/tripspark/logsvc/pkg/adapters/events/memory"
	eventsredis "github.com/tripspark/logsvc/pkg/adapters/events/redis"
	"github.com/tripspark/logsvc/pkg/adapters/metrics/prometheus"
	storagememory "github.com/tripspark/logsvc/pkg/adapters/storage/memory"
	storagemysql "github.com/tripspark/logsvc/pkg/adapters/storage/mysql"
	storageredis "github.com/tripspark/logsvc/pkg/adapters/storage/redis"
	"github.com/tripspark/logsvc/pkg/api/http"
	"github.com/tripspark/logsvc/pkg/api/websocket"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting log service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("storage_backend", cfg.Storage.Backend))

	ctx := context.Background()

	// Initialize storage and events per the selected backend
	var (
		store       ports.EntryStore
		eventBus    ports.EventBus
		redisClient *goredis.Client
	)

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		store = storageredis.NewEntryStore(redisClient, cfg.Storage.EntryTTL, logger)

		eventBus, err = eventsredis.NewStreamsEventBus(
			redisClient,
			"logsvc-stream",
			fmt.Sprintf("logsvc-%d", os.Getpid()),
			logger,
		)
		if err != nil {
			logger.Fatal("failed to create event bus", zap.Error(err))
		}

	case config.BackendMySQL:
		mysqlStore, err := storagemysql.NewEntryStore(ctx, storagemysql.Config{
			DSN:             cfg.MySQL.DSN(),
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		}, logger)
		if err != nil {
			logger.Fatal("failed to connect to MySQL", zap.Error(err))
		}
		logger.Info("connected to MySQL", zap.String("addr", cfg.MySQL.Host))

		store = mysqlStore
		eventBus = eventsmemory.NewInMemoryEventBus()

	default:
		store = storagememory.NewEntryStore()
		eventBus = eventsmemory.NewInMemoryEventBus()
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	pool := ingest.NewPool(ingest.Config{
		QueueSize:           cfg.Ingest.QueueSize,
		Workers:             cfg.Ingest.Workers,
		MaxRetries:          cfg.Ingest.MaxRetries,
		RetryDelay:          cfg.Ingest.RetryDelay,
		StoreTimeout:        cfg.Timeouts.StoreTimeout,
		HealthCheckInterval: cfg.Ingest.HealthCheckInterval,
	}, store, eventBus, metricsCollector, logger)

	service := logsvc.NewService(store, pool, metricsCollector, logsvc.NewValidator(), logger)

	// Start ingest pool
	if err := pool.Start(); err != nil {
		logger.Fatal("failed to start ingest pool", zap.Error(err))
	}

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Port:    cfg.HTTPPort,
		Service: service,
		Logger:  logger,
	})

	// Add WebSocket stream to HTTP server
	streamHandler := websocket.NewHandler(eventBus, metricsCollector, logger)
	httpServer.SetupStream(streamHandler)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("log service started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("ingest_workers", cfg.Ingest.Workers))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Error("ingest pool shutdown error", zap.Error(err))
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if err := store.Close(); err != nil {
		logger.Error("store close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("log service shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
