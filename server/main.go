package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pdminh/imagebatch/internal/config"
	"github.com/pdminh/imagebatch/internal/handlers"
	"github.com/pdminh/imagebatch/internal/services/cache"
	"github.com/pdminh/imagebatch/internal/services/notify"
	"github.com/pdminh/imagebatch/internal/services/processor"
	"github.com/pdminh/imagebatch/internal/services/storage"
	"github.com/pdminh/imagebatch/server/routes"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if _, err := cfg.Policy(); err != nil {
		logger.Fatal("Invalid encoding policy", zap.Error(err))
	}

	// Initialize services
	proc := processor.NewImageProcessor()

	var resultCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		resultCache = cache.NewRedisCache(cfg.Redis, cfg.Redis.CacheTTL)
		defer resultCache.Close()
	}

	var notifier *notify.Notifier
	if cfg.RabbitMQ.URL != "" {
		notifier, err = notify.New(cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("Failed to initialize notifier, continuing without it", zap.Error(err))
			notifier = nil
		} else {
			defer notifier.Close()
		}
	}

	var store *storage.ArchiveStore
	if cfg.Supabase.URL != "" {
		store = storage.NewArchiveStore(cfg.Supabase)
	}

	// Initialize handlers
	batchHandler := handlers.NewBatchHandler(proc, resultCache, notifier, store, logger, cfg)

	router := routes.NewRouter(batchHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
