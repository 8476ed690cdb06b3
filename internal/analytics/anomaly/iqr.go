package anomaly

import "github.com/wattline/wattline/internal/analytics"

// iqrMultiplier is the Tukey fence multiplier for the outlier bounds.
const iqrMultiplier = 1.5

// IQRDetector scores points by their distance outside the interquartile
// fences [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. Robust to extreme values compared to
// mean/stddev-based scoring.
type IQRDetector struct{}

// Name returns the method name
func (d *IQRDetector) Name() string {
	return string(MethodIQR)
}

// Scores scores points below the lower fence as (lower-v)/(Q1+eps) and above
// the upper fence as (v-upper)/(Q3+eps). In-bound points score 0.
func (d *IQRDetector) Scores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	q1, q3, iqr := analytics.Quartiles(values)
	lower := q1 - iqrMultiplier*iqr
	upper := q3 + iqrMultiplier*iqr

	for i, v := range values {
		switch {
		case v < lower:
			scores[i] = (lower - v) / (q1 + epsilon)
		case v > upper:
			scores[i] = (v - upper) / (q3 + epsilon)
		}
	}
	return scores
}
