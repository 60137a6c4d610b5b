package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatpulse/chatpulse/internal/cache"
	"github.com/chatpulse/chatpulse/internal/config"
	"github.com/chatpulse/chatpulse/internal/ingest"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/router"
	"github.com/chatpulse/chatpulse/internal/scheduler"
	"github.com/chatpulse/chatpulse/internal/storage"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create data directories", "error", err)
	}

	// Open the embedded store
	logger.Info("Opening store", "path", cfg.Storage.Path)
	store, err := storage.Open(storage.Config{Path: cfg.Storage.Path}, logger)
	if err != nil {
		logger.Fatal("Failed to open store", "error", err)
	}
	defer func() { _ = store.Close() }()

	// Connect the prediction result cache (optional)
	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to connect result cache", "error", err)
	}
	if resultCache != nil {
		logger.Info("Result cache connected", "url", cfg.Cache.URL, "ttl", cfg.Cache.TTL.String())
		defer func() { _ = resultCache.Close() }()
	}

	// Connect the message event consumer and start ingestion
	logger.Info("Connecting ingest broker", "type", cfg.Ingest.Type, "url", cfg.Ingest.URL)
	consumer, err := ingest.NewConsumer(cfg.Ingest)
	if err != nil {
		logger.Fatal("Failed to connect ingest broker", "error", err)
	}
	defer func() { _ = consumer.Close() }()

	pipeline := ingest.NewPipeline(store, logger)
	if err := pipeline.Start(consumer, cfg.Ingest.Subject); err != nil {
		logger.Fatal("Failed to start ingestion", "error", err)
	}
	logger.Info("Ingestion started", "subject", cfg.Ingest.Subject)

	// Start the maintenance scheduler
	sched, err := scheduler.New(store, logger, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to create scheduler", "error", err)
	}
	sched.Start()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// Initialize router
	app := router.New(logger, store, resultCache, *cfg)

	// Start server in goroutine
	go func() {
		addr := cfg.ServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
