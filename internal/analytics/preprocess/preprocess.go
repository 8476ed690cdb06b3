// Package preprocess cleans raw energy series before summarization and
// anomaly detection: sorting, gap filling, diagnostic outlier counting,
// optional normalization, and calendar feature derivation.
package preprocess

import (
	"sort"

	"github.com/wattline/wattline/internal/analytics"
	"github.com/wattline/wattline/internal/logging"
)

// iqrMultiplier is the standard Tukey fence multiplier for the diagnostic
// outlier count.
const iqrMultiplier = 1.5

// Options controls which cleaning stages run.
type Options struct {
	FillMissing bool
	Normalize   bool
}

// Preprocessor cleans raw series. It never fails: when the input is unusable
// it logs and returns the input unchanged, so a no-op result is still a
// success for callers.
type Preprocessor struct {
	logger *logging.Logger
}

// New creates a Preprocessor.
func New(logger *logging.Logger) *Preprocessor {
	return &Preprocessor{logger: logger}
}

// Preprocess returns a cleaned copy of the series. Stages, in order:
// stable sort by timestamp, gap filling (linear interpolation with boundary
// back/forward fill), diagnostic IQR outlier count (values untouched),
// optional min-max normalization into [0,1], and calendar features.
func (p *Preprocessor) Preprocess(s analytics.Series, opts Options) analytics.Series {
	if len(s.Points) == 0 {
		p.logger.Warn("Preprocess called with empty series, returning input unchanged",
			"value_column", s.ValueColumn)
		return s
	}

	out := s.Clone()

	// Stable sort keeps input order for equal timestamps.
	sort.SliceStable(out.Points, func(i, j int) bool {
		return out.Points[i].Time.Before(out.Points[j].Time)
	})

	if opts.FillMissing {
		fillMissing(out.Points)
	}

	values, _ := out.Values()
	if len(values) == 0 {
		p.logger.Warn("Series has no numeric values after fill, returning input unchanged",
			"points", len(s.Points))
		return s
	}

	// Outlier count is diagnostic only; flagged values are left untouched here.
	lower, upper := analytics.IQRBounds(values, iqrMultiplier)
	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}
	if outliers > 0 {
		p.logger.Debug("Outliers present in series",
			"count", outliers,
			"lower_bound", lower,
			"upper_bound", upper)
	}

	if opts.Normalize {
		normalize(&out, values)
	}

	deriveCalendar(out.Points)

	return out
}

// fillMissing fills nil values by linear interpolation between the nearest
// known neighbors; values still missing at the boundaries are back-filled
// then forward-filled from the nearest known value.
func fillMissing(points []analytics.Point) {
	n := len(points)

	for i := 0; i < n; i++ {
		if points[i].Value != nil {
			continue
		}

		prev := -1
		for j := i - 1; j >= 0; j-- {
			if points[j].Value != nil {
				prev = j
				break
			}
		}
		next := -1
		for j := i + 1; j < n; j++ {
			if points[j].Value != nil {
				next = j
				break
			}
		}

		switch {
		case prev >= 0 && next >= 0:
			// Linear interpolation by index distance between known neighbors.
			frac := float64(i-prev) / float64(next-prev)
			v := *points[prev].Value + frac*(*points[next].Value-*points[prev].Value)
			points[i].Value = analytics.Float64Ptr(v)
		case next >= 0:
			points[i].Value = analytics.Float64Ptr(*points[next].Value)
		case prev >= 0:
			points[i].Value = analytics.Float64Ptr(*points[prev].Value)
		}
	}
}

// normalize min-max scales values into [0,1] and records the scaling
// parameters on the series for later inverse transform. A constant series
// normalizes to 0 for every point.
func normalize(s *analytics.Series, values []float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	s.NormMin = analytics.Float64Ptr(minV)
	s.NormMax = analytics.Float64Ptr(maxV)

	span := maxV - minV
	for i := range s.Points {
		if s.Points[i].Value == nil {
			continue
		}
		if span == 0 {
			s.Points[i].Normalized = analytics.Float64Ptr(0)
			continue
		}
		s.Points[i].Normalized = analytics.Float64Ptr((*s.Points[i].Value - minV) / span)
	}
}

// deriveCalendar attaches calendar features to every point.
func deriveCalendar(points []analytics.Point) {
	for i := range points {
		t := points[i].Time
		dow := (int(t.Weekday()) + 6) % 7 // 0 = Monday
		hour := t.Hour()
		points[i].Calendar = &analytics.Calendar{
			DayOfWeek:      dow,
			HourOfDay:      hour,
			DayOfMonth:     t.Day(),
			MonthOfYear:    int(t.Month()),
			IsWeekend:      dow == 5 || dow == 6,
			IsBusinessHour: hour >= 8 && hour <= 17,
		}
	}
}
