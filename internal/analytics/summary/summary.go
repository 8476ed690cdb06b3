// Package summary computes aggregate consumption statistics over a cleaned
// energy series.
package summary

import (
	"time"

	"github.com/wattline/wattline/internal/analytics"
)

// Metrics is a value object holding aggregate consumption statistics.
// Computed fresh on each call; never cached or persisted.
type Metrics struct {
	Total          float64    `json:"total_consumption"`
	AverageDaily   float64    `json:"average_daily_consumption"`
	PeakValue      float64    `json:"peak_value"`
	PeakTime       *time.Time `json:"peak_time"`
	MinValue       float64    `json:"min_value"`
	MinTime        *time.Time `json:"min_time"`
	WeekdayAverage float64    `json:"weekday_average"`
	WeekendAverage float64    `json:"weekend_average"`
}

// Summarize computes consumption metrics over the series. Missing values are
// skipped. An empty series yields all-zero numeric fields and nil peak/min
// timestamps, never an error.
func Summarize(s analytics.Series) Metrics {
	var m Metrics

	var (
		total        float64
		count        int
		weekdaySum   float64
		weekdayCount int
		weekendSum   float64
		weekendCount int
		peakIdx      = -1
		minIdx       = -1
		calendarDays = make(map[string]struct{})
	)

	for i, p := range s.Points {
		if p.Value == nil {
			continue
		}
		v := *p.Value
		total += v
		count++

		calendarDays[p.Time.Format("2006-01-02")] = struct{}{}

		// First occurrence wins on ties.
		if peakIdx < 0 || v > *s.Points[peakIdx].Value {
			peakIdx = i
		}
		if minIdx < 0 || v < *s.Points[minIdx].Value {
			minIdx = i
		}

		if isWeekend(p) {
			weekendSum += v
			weekendCount++
		} else {
			weekdaySum += v
			weekdayCount++
		}
	}

	if count == 0 {
		return m
	}

	m.Total = total
	if len(calendarDays) > 0 {
		m.AverageDaily = total / float64(len(calendarDays))
	}
	m.PeakValue = *s.Points[peakIdx].Value
	peakTime := s.Points[peakIdx].Time
	m.PeakTime = &peakTime
	m.MinValue = *s.Points[minIdx].Value
	minTime := s.Points[minIdx].Time
	m.MinTime = &minTime

	if weekdayCount > 0 {
		m.WeekdayAverage = weekdaySum / float64(weekdayCount)
	}
	if weekendCount > 0 {
		m.WeekendAverage = weekendSum / float64(weekendCount)
	}

	return m
}

// isWeekend prefers the preprocessor's calendar annotation and falls back to
// the timestamp when the series was not preprocessed.
func isWeekend(p analytics.Point) bool {
	if p.Calendar != nil {
		return p.Calendar.IsWeekend
	}
	dow := (int(p.Time.Weekday()) + 6) % 7
	return dow == 5 || dow == 6
}
