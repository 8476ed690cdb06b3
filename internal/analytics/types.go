// Package analytics provides the shared series model and statistics helpers
// for the energy data-processing pipeline (preprocessing, summarization,
// anomaly detection).
package analytics

import "time"

// Default column names used when a source does not configure its own.
const (
	DefaultTimestampColumn = "timestamp"
	DefaultValueColumn     = "value"
)

// Point represents a single time-series sample. A nil Value marks a missing
// reading; values are never NaN after preprocessing.
type Point struct {
	Time  time.Time
	Value *float64

	// Derived annotations. These are additive: the original Time/Value are
	// never rewritten by any pipeline stage.
	Calendar     *Calendar
	Normalized   *float64
	AnomalyScore float64
	IsAnomaly    bool
}

// Calendar holds per-point calendar features derived during preprocessing.
type Calendar struct {
	DayOfWeek      int  `json:"day_of_week"` // 0 = Monday
	HourOfDay      int  `json:"hour_of_day"`
	DayOfMonth     int  `json:"day_of_month"`
	MonthOfYear    int  `json:"month_of_year"`
	IsWeekend      bool `json:"is_weekend"`
	IsBusinessHour bool `json:"is_business_hour"` // hour in [8,17]
}

// Series is an ordered sequence of points plus column metadata. After
// preprocessing, timestamps are non-decreasing. Duplicate timestamps are a
// caller error and are not merged.
type Series struct {
	TimestampColumn string
	ValueColumn     string
	Points          []Point

	// Min-max scaling parameters, retained when normalization was applied
	// so callers can inverse-transform.
	NormMin *float64
	NormMax *float64
}

// NewSeries creates a series with default column names.
func NewSeries(points []Point) Series {
	return Series{
		TimestampColumn: DefaultTimestampColumn,
		ValueColumn:     DefaultValueColumn,
		Points:          points,
	}
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// Values extracts the non-missing values in order, along with their indices
// in the series.
func (s Series) Values() ([]float64, []int) {
	values := make([]float64, 0, len(s.Points))
	indices := make([]int, 0, len(s.Points))
	for i, p := range s.Points {
		if p.Value != nil {
			values = append(values, *p.Value)
			indices = append(indices, i)
		}
	}
	return values, indices
}

// Clone returns a deep copy of the series. Pipeline stages annotate copies
// so callers' inputs stay untouched.
func (s Series) Clone() Series {
	out := s
	out.Points = make([]Point, len(s.Points))
	copy(out.Points, s.Points)
	for i := range out.Points {
		if v := out.Points[i].Value; v != nil {
			vv := *v
			out.Points[i].Value = &vv
		}
		if n := out.Points[i].Normalized; n != nil {
			nn := *n
			out.Points[i].Normalized = &nn
		}
		if c := out.Points[i].Calendar; c != nil {
			cc := *c
			out.Points[i].Calendar = &cc
		}
	}
	if s.NormMin != nil {
		v := *s.NormMin
		out.NormMin = &v
	}
	if s.NormMax != nil {
		v := *s.NormMax
		out.NormMax = &v
	}
	return out
}

// Float64Ptr returns a pointer to v. Convenience for building test fixtures
// and annotations.
func Float64Ptr(v float64) *float64 {
	return &v
}
