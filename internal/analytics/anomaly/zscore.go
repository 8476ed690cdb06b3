package anomaly

import (
	"math"

	"github.com/wattline/wattline/internal/analytics"
)

// ZScoreDetector scores points by how many standard deviations they sit from
// the series mean.
type ZScoreDetector struct{}

// Name returns the method name
func (d *ZScoreDetector) Name() string {
	return string(MethodZScore)
}

// Scores returns |v - mean| / std per point. A zero standard deviation means
// the points cannot be distinguished: every score is 0 and nothing is
// flagged.
func (d *ZScoreDetector) Scores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	mean, stdDev := analytics.MeanStdDev(values)
	if stdDev == 0 {
		return scores
	}

	for i, v := range values {
		scores[i] = math.Abs(v-mean) / stdDev
	}
	return scores
}
