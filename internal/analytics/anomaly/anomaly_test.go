package anomaly

import (
	"errors"
	"testing"
	"time"

	"github.com/wattline/wattline/internal/analytics"
)

func testSeries(values []float64) analytics.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]analytics.Point, len(values))
	for i, v := range values {
		points[i] = analytics.Point{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Value: analytics.Float64Ptr(v),
		}
	}
	return analytics.NewSeries(points)
}

func TestIQRDetectorFlagsExtremeOutlier(t *testing.T) {
	s := testSeries([]float64{10, 11, 9, 10, 11, 1000})

	out, err := Detect(s, MethodIQR, DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range out.Points {
		if i == 5 {
			if !p.IsAnomaly {
				t.Error("expected the extreme value at index 5 to be flagged")
			}
			if p.AnomalyScore <= DefaultThreshold {
				t.Errorf("outlier score = %v, want > %v", p.AnomalyScore, DefaultThreshold)
			}
		} else if p.IsAnomaly {
			t.Errorf("index %d should not be flagged (score %v)", i, p.AnomalyScore)
		}
	}
}

func TestIQRDetectorInBoundScoresAreZero(t *testing.T) {
	d := &IQRDetector{}
	scores := d.Scores([]float64{10, 11, 9, 10, 11})
	for i, s := range scores {
		if s != 0 {
			t.Errorf("score[%d] = %v, want 0 for in-bound point", i, s)
		}
	}
}

func TestIQRDetectorScoresLowOutlier(t *testing.T) {
	d := &IQRDetector{}
	scores := d.Scores([]float64{100, 110, 90, 100, 110, 1})
	if scores[5] <= 0 {
		t.Errorf("low outlier score = %v, want > 0", scores[5])
	}
}

func TestZScoreDetectorConstantSeries(t *testing.T) {
	s := testSeries([]float64{5, 5, 5, 5, 5})

	out, err := Detect(s, MethodZScore, DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range out.Points {
		if p.IsAnomaly || p.AnomalyScore != 0 {
			t.Errorf("constant series: index %d = (score %v, flagged %v), want (0, false)",
				i, p.AnomalyScore, p.IsAnomaly)
		}
	}
}

func TestZScoreDetectorSpike(t *testing.T) {
	d := &ZScoreDetector{}
	scores := d.Scores([]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100})
	for i, s := range scores[:9] {
		if s >= scores[9] {
			t.Errorf("baseline score[%d] = %v, should be below spike score %v", i, s, scores[9])
		}
	}
	if scores[9] <= DefaultThreshold {
		t.Errorf("spike score = %v, want > %v", scores[9], DefaultThreshold)
	}
}

func TestMovingAverageDetectorLocalSpike(t *testing.T) {
	// 48 hourly points around 10 with a 10x spike at index 40
	values := make([]float64, 48)
	for i := range values {
		values[i] = 10
	}
	values[40] = 100

	d := &MovingAverageDetector{}
	scores := d.Scores(values)

	for i, s := range scores {
		if i == 40 {
			if s <= DefaultThreshold {
				t.Errorf("spike score = %v, want > %v", s, DefaultThreshold)
			}
		} else if s > DefaultThreshold {
			t.Errorf("score[%d] = %v, should not exceed threshold", i, s)
		}
	}
}

func TestMovingAverageDetectorShortSeriesFallsBackToGlobal(t *testing.T) {
	// Shorter than one window: global statistics apply, no panic
	d := &MovingAverageDetector{}
	scores := d.Scores([]float64{10, 10, 10, 10, 100})
	if len(scores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(scores))
	}
	if scores[4] <= scores[0] {
		t.Errorf("spike score %v should exceed baseline score %v", scores[4], scores[0])
	}
}

func TestDetectUnknownMethodFailsLoudly(t *testing.T) {
	s := testSeries([]float64{1, 2, 3})

	_, err := Detect(s, Method("dbscan"), DefaultThreshold)
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("error = %v, want ErrUnsupportedMethod", err)
	}
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"iqr", "zscore", "moving_avg"} {
		if _, err := ParseMethod(s); err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseMethod("auto"); !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("ParseMethod(auto) error = %v, want ErrUnsupportedMethod", err)
	}
}

func TestDetectDoesNotMutateInput(t *testing.T) {
	s := testSeries([]float64{10, 11, 9, 10, 11, 1000})

	out, err := Detect(s, MethodIQR, DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	_ = out
	for i, p := range s.Points {
		if p.IsAnomaly || p.AnomalyScore != 0 {
			t.Errorf("input point %d was annotated in place", i)
		}
	}
}

func TestDetectSkipsMissingValues(t *testing.T) {
	s := testSeries([]float64{10, 11, 9, 10, 11, 1000})
	s.Points[2].Value = nil

	out, err := Detect(s, MethodIQR, DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if out.Points[2].IsAnomaly || out.Points[2].AnomalyScore != 0 {
		t.Error("missing value must score 0 and never be flagged")
	}
	if !out.Points[5].IsAnomaly {
		t.Error("outlier should still be flagged with a missing value present")
	}
}
