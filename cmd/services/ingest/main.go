package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/ingest"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/storage"
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
	logger.Info("Ingest service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Connect to storage
	logger.Info("Connecting to database", "host", cfg.Database.Host, "name", cfg.Database.Name)
	store, err := storage.Open(cfg.Database, cfg.Ingest.BatchSize, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() { _ = store.Close() }()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		logger.Fatal("Failed to ensure schema", "error", err)
	}
	schemaCancel()

	// Connect to Queue (configurable backend)
	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	subscriber, err := queue.NewSubscriber(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	defer func() { _ = subscriber.Close() }()
	logger.Info("Queue connection established")

	// Start consuming reading batches
	consumer := ingest.NewConsumer(store, subscriber, cfg.Ingest, logger)
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to start consumer", "error", err)
	}
	logger.Info("Consumer started", "subject", ingest.Subject(cfg.Ingest))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down consumer...")
	if err := consumer.Stop(); err != nil {
		logger.Error("Failed to stop consumer", "error", err)
	}

	logger.Info("Consumer exited")
}
