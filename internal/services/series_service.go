package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wattline/wattline/internal/analytics"
	"github.com/wattline/wattline/internal/analytics/anomaly"
	"github.com/wattline/wattline/internal/analytics/preprocess"
	"github.com/wattline/wattline/internal/analytics/summary"
	"github.com/wattline/wattline/internal/cache"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
	"github.com/wattline/wattline/internal/storage"
	"github.com/wattline/wattline/internal/timeutil"
)

// SeriesService answers series and summary queries: fetch readings, run the
// cleaning and detection pipeline, serve from cache when possible.
type SeriesService struct {
	logger       *logging.Logger
	store        storage.Store
	cache        *cache.Cache
	preprocessor *preprocess.Preprocessor
}

// NewSeriesService creates a SeriesService.
func NewSeriesService(logger *logging.Logger, store storage.Store, resultCache *cache.Cache) *SeriesService {
	return &SeriesService{
		logger:       logger,
		store:        store,
		cache:        resultCache,
		preprocessor: preprocess.New(logger),
	}
}

// Execute runs a full series query with preprocessing and optional anomaly
// detection.
func (s *SeriesService) Execute(ctx context.Context, req *models.SeriesRequest) (*models.SeriesResponse, error) {
	startedAt := time.Now()

	key := seriesCacheKey(req)
	var cached models.SeriesResponse
	if s.cache.Get(ctx, key, &cached) {
		s.logger.Debug("Series served from cache",
			"building", req.BuildingID,
			"metric", req.Metric)
		return &cached, nil
	}

	series, err := s.fetchSeries(ctx, req, req.StartTimeParsed, req.EndTimeParsed)
	if err != nil {
		return nil, err
	}

	cleaned := s.preprocessor.Preprocess(series, preprocess.Options{
		FillMissing: req.FillMissing,
		Normalize:   req.Normalize,
	})

	detectRan := false
	if req.MethodParsed != "" {
		detected, err := anomaly.Detect(cleaned, req.MethodParsed, req.AnomalyThreshold)
		if err != nil {
			return nil, NewServiceError(CodeUnsupportedMethod, err.Error())
		}
		cleaned = detected
		detectRan = true
	}

	resp := &models.SeriesResponse{
		BuildingID: req.BuildingID,
		Metric:     req.Metric,
		StartTime:  req.StartTimeParsed.Format(time.RFC3339),
		EndTime:    req.EndTimeParsed.Format(time.RFC3339),
		Interval:   req.Interval,
		Count:      cleaned.Len(),
		NormMin:    cleaned.NormMin,
		NormMax:    cleaned.NormMax,
		Rows:       models.SeriesRows(cleaned, detectRan),
	}

	s.cache.Set(ctx, key, resp)

	s.logger.WithContext(ctx).Info("Series query completed",
		"building", req.BuildingID,
		"metric", req.Metric,
		"interval", req.Interval,
		"points", resp.Count,
		"anomaly_method", req.AnomalyMethod,
		"latency_ms", time.Since(startedAt).Milliseconds())

	return resp, nil
}

// Summarize computes consumption summary metrics over the cleaned series.
func (s *SeriesService) Summarize(ctx context.Context, req *models.SeriesRequest) (*models.SummaryResponse, error) {
	key := summaryCacheKey(req)
	var cached models.SummaryResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	// Summaries report daily figures, so the window widens to whole
	// calendar days: start floors to midnight, end runs to end of day.
	dayStart, dayEnd, err := timeutil.DateRange(req.StartTimeParsed, timeutil.RangeOptions{
		End:         &req.EndTimeParsed,
		IncludeTime: false,
	})
	if err != nil {
		return nil, NewServiceErrorWithDetails(CodeStorageFailed, "failed to resolve summary range",
			map[string]interface{}{"error": err.Error()})
	}

	series, err := s.fetchSeries(ctx, req, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	cleaned := s.preprocessor.Preprocess(series, preprocess.Options{
		FillMissing: req.FillMissing,
	})

	resp := &models.SummaryResponse{
		BuildingID: req.BuildingID,
		Metric:     req.Metric,
		StartTime:  req.StartTimeParsed.Format(time.RFC3339),
		EndTime:    req.EndTimeParsed.Format(time.RFC3339),
		Summary:    summary.Summarize(cleaned),
	}

	s.cache.Set(ctx, key, resp)

	s.logger.WithContext(ctx).Info("Summary query completed",
		"building", req.BuildingID,
		"metric", req.Metric,
		"total", resp.Summary.Total)

	return resp, nil
}

// fetchSeries loads readings for the given window and applies interval
// aggregation when requested.
func (s *SeriesService) fetchSeries(ctx context.Context, req *models.SeriesRequest,
	start, end time.Time) (analytics.Series, error) {
	readings, err := s.store.GetTimeSeries(ctx, req.BuildingID, req.Metric, start, end)
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to load readings",
			"building", req.BuildingID,
			"metric", req.Metric,
			"error", err)
		return analytics.Series{}, NewServiceErrorWithDetails(CodeStorageFailed,
			"Failed to load readings",
			map[string]interface{}{"error": err.Error()})
	}

	series := readingsToSeries(readings)
	if req.IntervalParsed != "" {
		series = aggregateByInterval(series, start, end, req.IntervalParsed)
	}
	return series, nil
}

func readingsToSeries(readings []models.Reading) analytics.Series {
	points := make([]analytics.Point, len(readings))
	for i, r := range readings {
		points[i] = analytics.Point{Time: r.Time, Value: r.Value}
	}
	return analytics.NewSeries(points)
}

// aggregateByInterval sums readings into aligned buckets. A bucket without
// any readings becomes a missing point so gap filling can interpolate it.
func aggregateByInterval(s analytics.Series, start, end time.Time, interval timeutil.Interval) analytics.Series {
	periods := timeutil.Generate(start, end, interval)
	if len(periods) == 0 {
		return analytics.NewSeries(nil)
	}

	sums := make([]float64, len(periods))
	counts := make([]int, len(periods))

	// Readings arrive sorted ascending, walk both lists once.
	pi := 0
	for _, p := range s.Points {
		if p.Value == nil {
			continue
		}
		for pi < len(periods) && p.Time.After(periods[pi].End) {
			pi++
		}
		if pi >= len(periods) {
			break
		}
		if p.Time.Before(periods[pi].Start) {
			continue
		}
		sums[pi] += *p.Value
		counts[pi]++
	}

	points := make([]analytics.Point, len(periods))
	for i, period := range periods {
		points[i] = analytics.Point{Time: period.Start}
		if counts[i] > 0 {
			v := sums[i]
			points[i].Value = &v
		}
	}

	out := analytics.NewSeries(points)
	out.TimestampColumn = s.TimestampColumn
	out.ValueColumn = s.ValueColumn
	return out
}

func seriesCacheKey(req *models.SeriesRequest) string {
	return cache.Key("series",
		req.BuildingID,
		req.Metric,
		req.StartTimeParsed.UTC().Format(time.RFC3339Nano),
		req.EndTimeParsed.UTC().Format(time.RFC3339Nano),
		req.Interval,
		strconv.FormatBool(req.FillMissing),
		strconv.FormatBool(req.Normalize),
		string(req.MethodParsed),
		fmt.Sprintf("%g", req.AnomalyThreshold),
	)
}

func summaryCacheKey(req *models.SeriesRequest) string {
	return cache.Key("summary",
		req.BuildingID,
		req.Metric,
		req.StartTimeParsed.UTC().Format(time.RFC3339Nano),
		req.EndTimeParsed.UTC().Format(time.RFC3339Nano),
		strconv.FormatBool(req.FillMissing),
	)
}
