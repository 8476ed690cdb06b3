package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS readings (
    building_id TEXT             NOT NULL,
    metric      TEXT             NOT NULL,
    ts          TIMESTAMPTZ      NOT NULL,
    value       DOUBLE PRECISION,
    PRIMARY KEY (building_id, metric, ts)
);
CREATE INDEX IF NOT EXISTS readings_ts_idx ON readings (ts);
`

// hypertableSQL converts the readings table into a TimescaleDB hypertable.
// Best-effort: plain PostgreSQL works without it.
const hypertableSQL = `SELECT create_hypertable('readings', 'ts', if_not_exists => TRUE)`

const insertSQL = `
INSERT INTO readings (building_id, metric, ts, value)
VALUES (:building_id, :metric, :ts, :value)
ON CONFLICT (building_id, metric, ts) DO UPDATE SET value = EXCLUDED.value`

const selectSQL = `
SELECT building_id, metric, ts, value
FROM readings
WHERE building_id = $1 AND metric = $2 AND ts >= $3 AND ts <= $4
ORDER BY ts ASC`

// Postgres implements Store over PostgreSQL/TimescaleDB.
type Postgres struct {
	db        *sqlx.DB
	logger    *logging.Logger
	batchSize int
}

// Open connects to PostgreSQL and configures the connection pool.
func Open(cfg config.DatabaseConfig, batchSize int, logger *logging.Logger) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Postgres{db: db, logger: logger, batchSize: batchSize}, nil
}

// EnsureSchema creates the readings table and tries to convert it into a
// TimescaleDB hypertable. The hypertable step is skipped with a log line
// when the extension is absent.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create readings schema: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, hypertableSQL); err != nil {
		p.logger.Warn("TimescaleDB hypertable not created, continuing with plain table",
			"error", err)
	}
	return nil
}

// GetTimeSeries returns readings ordered ascending by timestamp.
func (p *Postgres) GetTimeSeries(ctx context.Context, buildingID, metric string, start, end time.Time) ([]models.Reading, error) {
	var readings []models.Reading
	if err := p.db.SelectContext(ctx, &readings, selectSQL, buildingID, metric, start, end); err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	return readings, nil
}

// PersistReadings upserts readings in batches inside one transaction per
// batch, so a failing batch does not discard previously written ones.
func (p *Postgres) PersistReadings(ctx context.Context, readings []models.Reading) (int, error) {
	written := 0
	for _, batch := range chunkReadings(readings, p.batchSize) {
		if err := p.persistBatch(ctx, batch); err != nil {
			return written, fmt.Errorf("failed to persist batch after %d readings: %w", written, err)
		}
		written += len(batch)
	}

	if written > 0 {
		p.logger.Debug("Persisted readings", "count", written)
	}
	return written, nil
}

func (p *Postgres) persistBatch(ctx context.Context, batch []models.Reading) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.NamedExecContext(ctx, insertSQL, batch); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
