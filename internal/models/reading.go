package models

import "time"

// Reading is a single meter sample as stored in PostgreSQL and carried on
// the ingestion queue. A nil Value marks a reported-but-missing reading.
type Reading struct {
	BuildingID string    `db:"building_id" json:"building_id"`
	Metric     string    `db:"metric" json:"metric"`
	Time       time.Time `db:"ts" json:"time"`
	Value      *float64  `db:"value" json:"value"`
}

// ReadingBatch is the queue payload for a batch of readings.
type ReadingBatch struct {
	BatchID  string    `json:"batch_id"`
	Source   string    `json:"source,omitempty"` // e.g., "api", "csv:meters.csv"
	Readings []Reading `json:"readings"`
}
