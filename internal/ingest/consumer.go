package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/storage"
	"github.com/wattline/wattline/internal/utils"
)

// Consumer drains reading batches from the ingestion queue into storage.
type Consumer struct {
	store   storage.Store
	sub     queue.Subscriber
	logger  *logging.Logger
	subject string
	cfg     config.IngestConfig
}

// NewConsumer creates a queue consumer bound to the configured subject.
func NewConsumer(store storage.Store, sub queue.Subscriber, cfg config.IngestConfig, logger *logging.Logger) *Consumer {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "readings"
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = utils.BatchWriteTimeout
	}

	return &Consumer{
		store:   store,
		sub:     sub,
		logger:  logger,
		subject: cfg.SubjectPrefix,
		cfg:     cfg,
	}
}

// Subject returns the queue subject batches are published to.
func Subject(cfg config.IngestConfig) string {
	if cfg.SubjectPrefix == "" {
		return "readings"
	}
	return cfg.SubjectPrefix
}

// Start subscribes to the ingestion subject. Returns once the subscription
// is established, delivery happens on queue goroutines.
func (c *Consumer) Start() error {
	if err := c.sub.Subscribe(c.subject, c.handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	c.logger.Info("Ingest consumer started", "subject", c.subject)
	return nil
}

// Stop unsubscribes from the ingestion subject.
func (c *Consumer) Stop() error {
	return c.sub.Unsubscribe(c.subject)
}

// handle decodes and persists one batch. A returned error leaves the
// message unacked so the queue redelivers it.
func (c *Consumer) handle(data []byte) error {
	var batch models.ReadingBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		// Malformed payloads can never succeed, drop them.
		c.logger.Error("Dropping malformed reading batch", "error", err)
		return nil
	}

	if len(batch.Readings) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PersistTimeout)
	defer cancel()

	written, err := c.store.PersistReadings(ctx, batch.Readings)
	if err != nil {
		c.logger.Error("Failed to persist reading batch",
			"batch_id", batch.BatchID,
			"written", written,
			"error", err)
		return err
	}

	c.logger.Debug("Persisted reading batch",
		"batch_id", batch.BatchID,
		"source", batch.Source,
		"count", written)
	return nil
}

// PublishBatches encodes batches and publishes them to the ingestion
// subject. Returns the number of batches accepted by the broker.
func PublishBatches(ctx context.Context, pub queue.Publisher, subject string, batches []models.ReadingBatch) (int, error) {
	messages := make([]queue.BatchMessage, 0, len(batches))
	for _, batch := range batches {
		data, err := json.Marshal(batch)
		if err != nil {
			return 0, fmt.Errorf("failed to encode batch %s: %w", batch.BatchID, err)
		}
		messages = append(messages, queue.BatchMessage{Subject: subject, Data: data})
	}
	return pub.PublishBatch(ctx, messages)
}
