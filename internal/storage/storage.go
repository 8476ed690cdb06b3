// Package storage provides the PostgreSQL/TimescaleDB access layer for
// meter readings.
package storage

import (
	"context"
	"time"

	"github.com/wattline/wattline/internal/models"
)

// Store is the reading storage interface consumed by the service and ingest
// layers.
type Store interface {
	// GetTimeSeries returns readings for one building/metric in
	// [start, end], ordered ascending by time.
	GetTimeSeries(ctx context.Context, buildingID, metric string, start, end time.Time) ([]models.Reading, error)

	// PersistReadings writes readings in batches, upserting on
	// (building_id, metric, ts). Returns the number of readings written.
	PersistReadings(ctx context.Context, readings []models.Reading) (int, error)

	// Close releases the connection pool.
	Close() error
}

// chunkReadings splits readings into batches of at most size. A size <= 0
// yields a single batch.
func chunkReadings(readings []models.Reading, size int) [][]models.Reading {
	if len(readings) == 0 {
		return nil
	}
	if size <= 0 || size >= len(readings) {
		return [][]models.Reading{readings}
	}

	batches := make([][]models.Reading, 0, (len(readings)+size-1)/size)
	for start := 0; start < len(readings); start += size {
		end := start + size
		if end > len(readings) {
			end = len(readings)
		}
		batches = append(batches, readings[start:end])
	}
	return batches
}
