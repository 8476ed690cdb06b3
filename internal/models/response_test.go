package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattline/wattline/internal/analytics"
)

func TestSeriesRowsKeepsOriginalColumns(t *testing.T) {
	ts := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := analytics.Series{
		TimestampColumn: "reading_time",
		ValueColumn:     "kwh",
		Points: []analytics.Point{
			{Time: ts, Value: analytics.Float64Ptr(42)},
		},
	}

	rows := SeriesRows(s, false)
	require.Len(t, rows, 1)
	assert.Equal(t, ts.Format(time.RFC3339Nano), rows[0]["reading_time"])
	assert.Equal(t, 42.0, rows[0]["kwh"])
	assert.NotContains(t, rows[0], "anomaly_score")
	assert.NotContains(t, rows[0], "day_of_week")
}

func TestSeriesRowsAdditiveColumns(t *testing.T) {
	ts := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	p := analytics.Point{
		Time:  ts,
		Value: analytics.Float64Ptr(42),
		Calendar: &analytics.Calendar{
			DayOfWeek: 0, HourOfDay: 12, DayOfMonth: 10, MonthOfYear: 6,
		},
		Normalized:   analytics.Float64Ptr(0.5),
		AnomalyScore: 2.5,
		IsAnomaly:    true,
	}
	s := analytics.NewSeries([]analytics.Point{p})

	rows := SeriesRows(s, true)
	require.Len(t, rows, 1)
	assert.Equal(t, 42.0, rows[0]["value"])
	assert.Equal(t, 0, rows[0]["day_of_week"])
	assert.Equal(t, false, rows[0]["is_weekend"])
	assert.Equal(t, 0.5, rows[0]["value_normalized"])
	assert.Equal(t, 2.5, rows[0]["anomaly_score"])
	assert.Equal(t, true, rows[0]["is_anomaly"])
}

func TestSeriesRowsNullValue(t *testing.T) {
	s := analytics.NewSeries([]analytics.Point{
		{Time: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	})

	rows := SeriesRows(s, false)
	require.Len(t, rows, 1)
	v, present := rows[0]["value"]
	assert.True(t, present)
	assert.Nil(t, v)
}
