// Package ingest moves meter readings from external sources into storage,
// either directly or through the ingestion queue.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
	"github.com/wattline/wattline/internal/timeutil"
	"github.com/wattline/wattline/internal/utils"
)

// ImportOptions controls how a CSV file is mapped to readings.
type ImportOptions struct {
	BuildingID      string
	Metric          string
	TimestampColumn string // default "timestamp"
	ValueColumn     string // default "value"
	BatchSize       int    // readings per batch, default utils.DefaultPersistBatchSize
}

// RowError records one rejected CSV row.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ImportResult summarizes one CSV import.
type ImportResult struct {
	Batches  []models.ReadingBatch
	Parsed   int
	Rejected []RowError
}

// Importer parses CSV exports from metering systems. Timestamps may use any
// supported layout and rows may mix layouts within one file.
type Importer struct {
	logger *logging.Logger
}

// NewImporter creates a CSV importer.
func NewImporter(logger *logging.Logger) *Importer {
	return &Importer{logger: logger}
}

// Import reads CSV from r and converts rows into batches of readings.
// Rows with an unparseable timestamp are rejected and counted, they never
// abort the import. Empty or placeholder values become missing readings.
func (im *Importer) Import(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	if opts.BuildingID == "" || opts.Metric == "" {
		return nil, fmt.Errorf("building and metric are required")
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = "timestamp"
	}
	if opts.ValueColumn == "" {
		opts.ValueColumn = "value"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = utils.DefaultPersistBatchSize
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	tsIdx, valIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case opts.TimestampColumn:
			tsIdx = i
		case opts.ValueColumn:
			valIdx = i
		}
	}
	if tsIdx < 0 {
		return nil, fmt.Errorf("timestamp column %q not found in header", opts.TimestampColumn)
	}
	if valIdx < 0 {
		return nil, fmt.Errorf("value column %q not found in header", opts.ValueColumn)
	}

	result := &ImportResult{}
	var current []models.Reading
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Reason: err.Error()})
			continue
		}

		ts, err := timeutil.Parse(strings.TrimSpace(record[tsIdx]))
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Reason: err.Error()})
			continue
		}

		reading := models.Reading{
			BuildingID: opts.BuildingID,
			Metric:     opts.Metric,
			Time:       ts,
			Value:      parseValue(record[valIdx]),
		}
		current = append(current, reading)
		result.Parsed++

		if len(current) >= opts.BatchSize {
			result.Batches = append(result.Batches, newBatch(current))
			current = nil
		}
	}

	if len(current) > 0 {
		result.Batches = append(result.Batches, newBatch(current))
	}

	im.logger.Info("CSV import parsed",
		"building", opts.BuildingID,
		"metric", opts.Metric,
		"parsed", result.Parsed,
		"rejected", len(result.Rejected),
		"batches", len(result.Batches))

	return result, nil
}

func newBatch(readings []models.Reading) models.ReadingBatch {
	return models.ReadingBatch{
		BatchID:  uuid.NewString(),
		Source:   "csv",
		Readings: readings,
	}
}

// parseValue converts a CSV cell to a reading value. Empty cells and common
// null markers become missing values.
func parseValue(cell string) *float64 {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "null", "nan", "na", "-":
		return nil
	}
	if !utils.IsNumeric(s) {
		return nil
	}
	v := utils.MustToFloat64(s)
	return &v
}
