package anomaly

import (
	"math"

	"github.com/wattline/wattline/internal/analytics"
)

// movingWindow is the symmetric rolling window size: nominally one day of
// hourly samples.
const movingWindow = 24

// MovingAverageDetector scores points against a centered rolling mean and
// standard deviation, catching local deviations that whole-series statistics
// miss in trending data.
type MovingAverageDetector struct{}

// Name returns the method name
func (d *MovingAverageDetector) Name() string {
	return string(MethodMovingAvg)
}

// Scores computes local mean/std over a centered 24-sample window. Edge
// positions without a full window are filled from the nearest computed
// window (back-fill, then forward-fill). Any remaining zero local std is
// replaced by the mean of the computed stds before scoring
// |v - local_mean| / (local_std + eps).
func (d *MovingAverageDetector) Scores(values []float64) []float64 {
	n := len(values)
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	localMean := make([]float64, n)
	localStd := make([]float64, n)
	computed := make([]bool, n)
	half := movingWindow / 2

	for i := 0; i < n; i++ {
		start := i - half
		end := start + movingWindow // exclusive
		if start < 0 || end > n {
			continue
		}
		localMean[i], localStd[i] = analytics.MeanStdDev(values[start:end])
		computed[i] = true
	}

	if !fillEdges(localMean, localStd, computed) {
		// Series shorter than one window: fall back to global statistics.
		mean, std := analytics.MeanStdDev(values)
		for i := range values {
			localMean[i] = mean
			localStd[i] = std
		}
	}

	// Replace zero local stds with the mean std so flat windows inside a
	// varying series still produce finite, comparable scores.
	var stdSum float64
	var stdCount int
	for i := range localStd {
		if localStd[i] > 0 {
			stdSum += localStd[i]
			stdCount++
		}
	}
	if stdCount > 0 {
		meanStd := stdSum / float64(stdCount)
		for i := range localStd {
			if localStd[i] == 0 {
				localStd[i] = meanStd
			}
		}
	}

	for i, v := range values {
		scores[i] = math.Abs(v-localMean[i]) / (localStd[i] + epsilon)
	}
	return scores
}

// fillEdges back-fills then forward-fills positions without a computed
// window. Returns false when nothing was computed at all.
func fillEdges(mean, std []float64, computed []bool) bool {
	n := len(computed)

	first, last := -1, -1
	for i := 0; i < n; i++ {
		if computed[i] {
			first = i
			break
		}
	}
	if first < 0 {
		return false
	}
	for i := n - 1; i >= 0; i-- {
		if computed[i] {
			last = i
			break
		}
	}

	for i := 0; i < first; i++ {
		mean[i] = mean[first]
		std[i] = std[first]
	}
	for i := last + 1; i < n; i++ {
		mean[i] = mean[last]
		std[i] = std[last]
	}
	return true
}
