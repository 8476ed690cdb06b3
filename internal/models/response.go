package models

import (
	"time"

	"github.com/wattline/wattline/internal/analytics"
	"github.com/wattline/wattline/internal/analytics/summary"
)

// ErrorDetail holds a structured error payload
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the JSON envelope for all error replies
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// WriteReadingsResponse reports the outcome of a reading write
type WriteReadingsResponse struct {
	BatchID  string `json:"batch_id"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// SeriesResponse is the cleaned, annotated series payload. Rows carry the
// original columns plus the additive derived columns; original column names
// are never renamed or dropped.
type SeriesResponse struct {
	BuildingID string                   `json:"building_id"`
	Metric     string                   `json:"metric"`
	StartTime  string                   `json:"start_time"`
	EndTime    string                   `json:"end_time"`
	Interval   string                   `json:"interval,omitempty"`
	Count      int                      `json:"count"`
	NormMin    *float64                 `json:"norm_min,omitempty"`
	NormMax    *float64                 `json:"norm_max,omitempty"`
	Rows       []map[string]interface{} `json:"rows"`
}

// SummaryResponse is the consumption summary payload
type SummaryResponse struct {
	BuildingID string          `json:"building_id"`
	Metric     string          `json:"metric"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Summary    summary.Metrics `json:"summary"`
}

// SeriesRows serializes a series into row maps keyed by its configured
// column names, timestamps as ISO-8601. Derived columns are added only when
// the producing stage ran: calendar features from preprocessing,
// <value>_normalized when normalization was requested, anomaly_score and
// is_anomaly when detection ran.
func SeriesRows(s analytics.Series, includeAnomaly bool) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(s.Points))
	for _, p := range s.Points {
		row := map[string]interface{}{
			s.TimestampColumn: p.Time.Format(time.RFC3339Nano),
		}
		if p.Value != nil {
			row[s.ValueColumn] = *p.Value
		} else {
			row[s.ValueColumn] = nil
		}

		if c := p.Calendar; c != nil {
			row["day_of_week"] = c.DayOfWeek
			row["hour_of_day"] = c.HourOfDay
			row["day_of_month"] = c.DayOfMonth
			row["month_of_year"] = c.MonthOfYear
			row["is_weekend"] = c.IsWeekend
			row["is_business_hour"] = c.IsBusinessHour
		}
		if p.Normalized != nil {
			row[s.ValueColumn+"_normalized"] = *p.Normalized
		}
		if includeAnomaly {
			row["anomaly_score"] = p.AnomalyScore
			row["is_anomaly"] = p.IsAnomaly
		}
		rows = append(rows, row)
	}
	return rows
}
