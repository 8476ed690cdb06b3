package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/ingest"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/storage"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	file := flag.String("file", "", "Path to CSV file (required)")
	building := flag.String("building", "", "Building ID (required)")
	metric := flag.String("metric", "", "Metric name (required)")
	tsColumn := flag.String("timestamp-column", "timestamp", "CSV column holding timestamps")
	valueColumn := flag.String("value-column", "value", "CSV column holding values")
	batchSize := flag.Int("batch-size", 0, "Readings per batch (0 = config default)")
	direct := flag.Bool("direct", false, "Persist directly to the database instead of publishing to the queue")

	flag.Parse()

	// Validate required parameters
	if *file == "" || *building == "" || *metric == "" {
		log.Fatal("Error: -file, -building and -metric are required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		log.Fatalf("Error initializing logger: %v\n", err)
	}
	logging.SetGlobal(logger)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Error opening CSV file: %v\n", err)
	}
	defer func() { _ = f.Close() }()

	if *batchSize <= 0 {
		*batchSize = cfg.Ingest.BatchSize
	}

	// Parse the file into reading batches
	importer := ingest.NewImporter(logger)
	result, err := importer.Import(f, ingest.ImportOptions{
		BuildingID:      *building,
		Metric:          *metric,
		TimestampColumn: *tsColumn,
		ValueColumn:     *valueColumn,
		BatchSize:       *batchSize,
	})
	if err != nil {
		log.Fatalf("Error importing CSV: %v\n", err)
	}

	fmt.Printf("Parsed %d readings into %d batches (%d rows rejected)\n",
		result.Parsed, len(result.Batches), len(result.Rejected))
	for _, rowErr := range result.Rejected {
		fmt.Printf("  rejected %v\n", rowErr)
	}

	if result.Parsed == 0 {
		log.Fatal("Error: no valid readings found in file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *direct {
		persistDirect(ctx, cfg, logger, result)
	} else {
		publishToQueue(ctx, cfg, logger, result)
	}
}

func persistDirect(ctx context.Context, cfg *config.Config, logger *logging.Logger, result *ingest.ImportResult) {
	store, err := storage.Open(cfg.Database, cfg.Ingest.BatchSize, logger)
	if err != nil {
		log.Fatalf("Error connecting to database: %v\n", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Error ensuring schema: %v\n", err)
	}

	total := 0
	for _, batch := range result.Batches {
		n, err := store.PersistReadings(ctx, batch.Readings)
		if err != nil {
			log.Fatalf("Error persisting batch %s: %v\n", batch.BatchID, err)
		}
		total += n
	}
	fmt.Printf("Persisted %d readings\n", total)
}

func publishToQueue(ctx context.Context, cfg *config.Config, logger *logging.Logger, result *ingest.ImportResult) {
	publisher, err := queue.NewPublisher(cfg.Queue, logger)
	if err != nil {
		log.Fatalf("Error connecting to queue: %v\n", err)
	}
	defer func() { _ = publisher.Close() }()

	published, err := ingest.PublishBatches(ctx, publisher, ingest.Subject(cfg.Ingest), result.Batches)
	if err != nil {
		log.Fatalf("Error publishing batches (%d published): %v\n", published, err)
	}
	fmt.Printf("Published %d batches to %q\n", published, ingest.Subject(cfg.Ingest))
}
