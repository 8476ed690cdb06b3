package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateHourly(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	periods := Generate(start, end, IntervalHourly)
	if len(periods) != 3 {
		t.Fatalf("expected 3 hourly periods, got %d", len(periods))
	}
	if !periods[0].Start.Equal(start) {
		t.Errorf("first period start = %v, want %v", periods[0].Start, start)
	}
	wantEnd := time.Date(2024, 1, 1, 0, 59, 59, 999999000, time.UTC)
	if !periods[0].End.Equal(wantEnd) {
		t.Errorf("first period end = %v, want %v", periods[0].End, wantEnd)
	}
	// Last bucket is clipped to the range end
	if !periods[2].End.Equal(end) {
		t.Errorf("last period end = %v, want %v", periods[2].End, end)
	}
}

func TestGenerateDailyCount(t *testing.T) {
	// Count equals ceil((end-start) in days) for midnight-aligned starts
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		end  time.Time
		want int
	}{
		{time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC), 3},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		periods := Generate(start, tt.end, IntervalDaily)
		if len(periods) != tt.want {
			t.Errorf("Generate(%v, %v, daily) = %d periods, want %d",
				start, tt.end, len(periods), tt.want)
		}
		// Every bucket except possibly the last spans exactly 24h minus 1µs
		for i, p := range periods[:len(periods)-1] {
			span := p.End.Sub(p.Start) + time.Microsecond
			if span != 24*time.Hour {
				t.Errorf("period %d spans %v, want 24h", i, span)
			}
		}
	}
}

func TestGenerateWeeklyAlignsToMonday(t *testing.T) {
	// 2024-06-15 is a Saturday; the enclosing week starts Monday 2024-06-10
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

	periods := Generate(start, end, IntervalWeekly)
	if len(periods) != 3 {
		t.Fatalf("expected 3 weekly periods, got %d", len(periods))
	}
	// First bucket is clipped to start, second begins on the next Monday
	if !periods[0].Start.Equal(start) {
		t.Errorf("first period start = %v, want %v", periods[0].Start, start)
	}
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	if !periods[1].Start.Equal(monday) {
		t.Errorf("second period start = %v, want Monday %v", periods[1].Start, monday)
	}
}

func TestGenerateMonthlyHandlesRollover(t *testing.T) {
	start := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	periods := Generate(start, end, IntervalMonthly)
	if len(periods) != 4 {
		t.Fatalf("expected 4 monthly periods (Nov-Feb), got %d", len(periods))
	}
	dec := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	if !periods[1].Start.Equal(dec) {
		t.Errorf("second period start = %v, want %v", periods[1].Start, dec)
	}
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !periods[2].Start.Equal(jan) {
		t.Errorf("third period start = %v, want %v", periods[2].Start, jan)
	}
	// December bucket ends one microsecond before January 1st
	wantDecEnd := jan.Add(-time.Microsecond)
	if !periods[1].End.Equal(wantDecEnd) {
		t.Errorf("december period end = %v, want %v", periods[1].End, wantDecEnd)
	}
	if !periods[3].End.Equal(end) {
		t.Errorf("final period end = %v, want clipped %v", periods[3].End, end)
	}
}

func TestGenerateDegenerateRange(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if periods := Generate(at, at, IntervalDaily); len(periods) != 0 {
		t.Errorf("start == end should yield empty sequence, got %d periods", len(periods))
	}
	if periods := Generate(at.AddDate(0, 0, 1), at, IntervalDaily); len(periods) != 0 {
		t.Errorf("start > end should yield empty sequence, got %d periods", len(periods))
	}
}

func TestGenerateContiguousNonOverlapping(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	periods := Generate(start, end, IntervalDaily)
	for i := 1; i < len(periods); i++ {
		gap := periods[i].Start.Sub(periods[i-1].End)
		if gap != time.Microsecond {
			t.Errorf("periods %d and %d are not contiguous: gap %v", i-1, i, gap)
		}
	}
}

func TestParseInterval(t *testing.T) {
	for _, s := range []string{"hourly", "daily", "weekly", "monthly"} {
		if _, err := ParseInterval(s); err != nil {
			t.Errorf("ParseInterval(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseInterval("fortnightly"); err == nil {
		t.Error("expected error for unsupported interval")
	}
}

func TestDateRangeBothEndAndDaysFails(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	endVal := start.AddDate(0, 0, 5)
	days := 5

	_, _, err := DateRange(start, RangeOptions{End: &endVal, Days: &days, IncludeTime: true})
	if err == nil {
		t.Fatal("expected ValidationError when both end and days are supplied")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %T, want *ValidationError", err)
	}
}

func TestDateRangeNegativeDaysFails(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := -2
	_, _, err := DateRange(start, RangeOptions{Days: &days})
	if err == nil {
		t.Fatal("expected ValidationError for negative days")
	}
}

func TestDateRangeZeroDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	days := 0
	gotStart, gotEnd, err := DateRange(start, RangeOptions{Days: &days, IncludeTime: true})
	if err != nil {
		t.Fatal(err)
	}
	if !gotStart.Equal(start) || !gotEnd.Equal(start) {
		t.Errorf("DateRange with days=0 = (%v, %v), want (start, start)", gotStart, gotEnd)
	}
}

func TestDateRangeDefaultsEndToNow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	_, end, err := DateRange(start, RangeOptions{IncludeTime: true, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if !end.Equal(now) {
		t.Errorf("end = %v, want now %v", end, now)
	}
}

func TestDateRangeFloorsAndCeilsWithoutTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 14, 22, 5, 0, time.UTC)
	endVal := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)

	gotStart, gotEnd, err := DateRange(start, RangeOptions{End: &endVal})
	if err != nil {
		t.Fatal(err)
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 10, 23, 59, 59, 999999000, time.UTC)
	if !gotStart.Equal(wantStart) {
		t.Errorf("start = %v, want floored %v", gotStart, wantStart)
	}
	if !gotEnd.Equal(wantEnd) {
		t.Errorf("end = %v, want ceiled %v", gotEnd, wantEnd)
	}
}
