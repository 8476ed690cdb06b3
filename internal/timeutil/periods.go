package timeutil

import (
	"fmt"
	"time"
)

// Interval is the closed set of supported bucket sizes.
type Interval string

const (
	IntervalHourly  Interval = "hourly"
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// ParseInterval validates an interval string.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalHourly, IntervalDaily, IntervalWeekly, IntervalMonthly:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unsupported interval: %q (supported: hourly, daily, weekly, monthly)", s)
}

// Period is a time bucket. Start is inclusive; End is the last representable
// microsecond of the bucket (inclusive), except the final bucket of a
// sequence whose End is clipped to the requested range end.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ValidationError indicates invalid caller-supplied range parameters.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Generate produces an ordered, contiguous, non-overlapping sequence of
// periods covering [start, end]. Buckets are aligned to the interval
// boundary (top of hour, midnight, Monday, first of month); the first
// bucket is clipped to start and the last to end. A degenerate range
// (start >= end) yields an empty sequence, not an error.
func Generate(start, end time.Time, interval Interval) []Period {
	if !start.Before(end) {
		return nil
	}

	cur := alignStart(start, interval)
	var periods []Period
	for cur.Before(end) {
		next := advance(cur, interval)

		periodStart := cur
		if periodStart.Before(start) {
			periodStart = start
		}

		periodEnd := next.Add(-time.Microsecond)
		if periodEnd.After(end) {
			periodEnd = end
		}

		periods = append(periods, Period{Start: periodStart, End: periodEnd})
		cur = next
	}
	return periods
}

// alignStart truncates t down to its interval boundary.
func alignStart(t time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case IntervalDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case IntervalWeekly:
		// Monday at or before t
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
		return midnight.AddDate(0, 0, -offset)
	case IntervalMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// advance moves one interval forward using calendar arithmetic, so variable
// month lengths and year rollover are handled by the standard library.
func advance(t time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalHourly:
		return t.Add(time.Hour)
	case IntervalDaily:
		return t.AddDate(0, 0, 1)
	case IntervalWeekly:
		return t.AddDate(0, 0, 7)
	case IntervalMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.Add(time.Hour)
	}
}

// RangeOptions configures DateRange. At most one of End and Days may be set.
type RangeOptions struct {
	End         *time.Time
	Days        *int
	IncludeTime bool
	Now         time.Time // reference moment when End and Days are absent; zero means time.Now()
}

// DateRange resolves a (start, end) pair from a start plus either an explicit
// end or a day count. Supplying both End and Days is a caller error and
// fails with ValidationError; supplying neither defaults the end to now.
// When IncludeTime is false, start is floored to midnight and end is ceiled
// to 23:59:59.999999 of its day.
func DateRange(start time.Time, opts RangeOptions) (time.Time, time.Time, error) {
	if opts.End != nil && opts.Days != nil {
		return time.Time{}, time.Time{}, &ValidationError{
			Message: "exactly one of end and days may be supplied, not both",
		}
	}

	var end time.Time
	switch {
	case opts.End != nil:
		end = *opts.End
	case opts.Days != nil:
		if *opts.Days < 0 {
			return time.Time{}, time.Time{}, &ValidationError{
				Message: fmt.Sprintf("days must be non-negative, got %d", *opts.Days),
			}
		}
		end = start.AddDate(0, 0, *opts.Days)
	default:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		end = now
	}

	if !opts.IncludeTime {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999000, end.Location())
	}

	return start, end, nil
}
