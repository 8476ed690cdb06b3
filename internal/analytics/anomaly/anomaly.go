// Package anomaly flags anomalous points in energy series using one of a
// closed set of interchangeable scoring strategies.
package anomaly

import (
	"errors"
	"fmt"

	"github.com/wattline/wattline/internal/analytics"
)

// Method identifies a detection strategy. The set is closed: adding a method
// means adding a constant and a case in NewDetector, checked at compile time
// rather than discovered at runtime from an open string registry.
type Method string

const (
	MethodIQR       Method = "iqr"
	MethodZScore    Method = "zscore"
	MethodMovingAvg Method = "moving_avg"
)

const (
	// DefaultThreshold is the score above which a point is flagged.
	DefaultThreshold = 1.5

	// epsilon guards divisions by zero in score formulas.
	epsilon = 1e-10
)

// ErrUnsupportedMethod is returned for methods outside the closed set. An
// unknown method fails loudly instead of reporting a falsely-confident
// all-clear.
var ErrUnsupportedMethod = errors.New("unsupported anomaly detection method")

// ParseMethod validates a method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodIQR, MethodZScore, MethodMovingAvg:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q (supported: iqr, zscore, moving_avg)", ErrUnsupportedMethod, s)
}

// Detector scores a value sequence. Scores are non-negative and comparable
// within one run of one method, but not across methods or thresholds.
type Detector interface {
	// Name returns the method name
	Name() string

	// Scores returns one anomaly score per input value, 0 for in-bound points
	Scores(values []float64) []float64
}

// NewDetector returns the detector for a method.
func NewDetector(method Method) (Detector, error) {
	switch method {
	case MethodIQR:
		return &IQRDetector{}, nil
	case MethodZScore:
		return &ZScoreDetector{}, nil
	case MethodMovingAvg:
		return &MovingAverageDetector{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

// Detect returns a copy of the series annotated with per-point anomaly
// scores and flags (score > threshold). Original values are never mutated.
// Missing values score 0 and are never flagged.
func Detect(s analytics.Series, method Method, threshold float64) (analytics.Series, error) {
	detector, err := NewDetector(method)
	if err != nil {
		return analytics.Series{}, err
	}

	out := s.Clone()
	values, indices := out.Values()
	if len(values) == 0 {
		return out, nil
	}

	scores := detector.Scores(values)
	for k, idx := range indices {
		out.Points[idx].AnomalyScore = scores[k]
		out.Points[idx].IsAnomaly = scores[k] > threshold
	}
	return out, nil
}
