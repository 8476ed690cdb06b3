package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattline/wattline/internal/cache"
	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
)

type fakeStore struct {
	readings []models.Reading
	err      error

	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeStore) GetTimeSeries(ctx context.Context, buildingID, metric string, start, end time.Time) ([]models.Reading, error) {
	f.gotStart, f.gotEnd = start, end
	if f.err != nil {
		return nil, f.err
	}
	return f.readings, nil
}

func (f *fakeStore) PersistReadings(ctx context.Context, readings []models.Reading) (int, error) {
	return len(readings), nil
}

func (f *fakeStore) Close() error { return nil }

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.Disabled)
}

func disabledCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(config.CacheConfig{Enabled: false}, testLogger())
	require.NoError(t, err)
	return c
}

func hourlyReadings(start time.Time, values []*float64) []models.Reading {
	readings := make([]models.Reading, len(values))
	for i, v := range values {
		readings[i] = models.Reading{
			BuildingID: "b1",
			Metric:     "energy_kwh",
			Time:       start.Add(time.Duration(i) * time.Hour),
			Value:      v,
		}
	}
	return readings
}

func validatedRequest(t *testing.T, mutate func(*models.SeriesRequest)) *models.SeriesRequest {
	t.Helper()
	req := models.NewSeriesRequest("b1", "energy_kwh",
		"2024-01-01T00:00:00Z", "2024-01-03T00:00:00Z", "", "", false, false, "", 0)
	if mutate != nil {
		mutate(req)
	}
	require.NoError(t, req.Validate())
	return req
}

// Two days of flat hourly consumption with one meter dropout and one spike.
// The pipeline interpolates the dropout and the moving-average detector
// flags only the spike.
func TestExecuteFullPipeline(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	values := make([]*float64, 48)
	for i := range values {
		v := 10.0
		values[i] = &v
	}
	values[10] = nil
	spike := 100.0
	values[40] = &spike

	store := &fakeStore{readings: hourlyReadings(start, values)}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) {
		r.FillMissing = true
		r.AnomalyMethod = "moving_avg"
	})

	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 48, resp.Count)
	require.Len(t, resp.Rows, 48)

	// Dropout interpolated from its flat neighbors.
	assert.Equal(t, 10.0, resp.Rows[10]["value"])

	flagged := 0
	for i, row := range resp.Rows {
		isAnomaly, ok := row["is_anomaly"].(bool)
		require.True(t, ok, "row %d missing is_anomaly", i)
		if isAnomaly {
			flagged++
			assert.Equal(t, 40, i, "only the spike should be flagged")
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestExecuteWithoutAnomalyOmitsScores(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := 5.0
	store := &fakeStore{readings: hourlyReadings(start, []*float64{&v, &v, &v})}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	resp, err := svc.Execute(context.Background(), validatedRequest(t, nil))
	require.NoError(t, err)
	require.Len(t, resp.Rows, 3)
	assert.NotContains(t, resp.Rows[0], "anomaly_score")
	assert.NotContains(t, resp.Rows[0], "is_anomaly")
}

func TestExecuteNormalizeReturnsParams(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vals := []*float64{}
	for _, f := range []float64{0, 5, 10} {
		v := f
		vals = append(vals, &v)
	}
	store := &fakeStore{readings: hourlyReadings(start, vals)}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) { r.Normalize = true })
	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.NormMin)
	require.NotNil(t, resp.NormMax)
	assert.Equal(t, 0.0, *resp.NormMin)
	assert.Equal(t, 10.0, *resp.NormMax)
	assert.Equal(t, 0.5, resp.Rows[1]["value_normalized"])
}

func TestExecuteDailyAggregation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	values := make([]*float64, 48)
	for i := range values {
		v := 1.0
		values[i] = &v
	}
	store := &fakeStore{readings: hourlyReadings(start, values)}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) { r.Interval = "daily" })
	resp, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 2024-01-01 and 2024-01-02 buckets with 24 readings each.
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 24.0, resp.Rows[0]["value"])
	assert.Equal(t, 24.0, resp.Rows[1]["value"])
	assert.Equal(t, start.Format(time.RFC3339Nano), resp.Rows[0]["timestamp"])
}

func TestExecuteEmptySeriesSucceeds(t *testing.T) {
	store := &fakeStore{}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	resp, err := svc.Execute(context.Background(), validatedRequest(t, func(r *models.SeriesRequest) {
		r.FillMissing = true
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Rows)
}

func TestExecuteStorageFailure(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection refused")}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	_, err := svc.Execute(context.Background(), validatedRequest(t, nil))
	require.Error(t, err)

	svcErr, ok := err.(*ServiceError)
	require.True(t, ok, "expected *ServiceError, got %T", err)
	assert.Equal(t, "STORAGE_FAILED", svcErr.Code)
}

func TestSummarize(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // Monday
	vals := []*float64{}
	for _, f := range []float64{10, 20, 30} {
		v := f
		vals = append(vals, &v)
	}
	store := &fakeStore{readings: hourlyReadings(start, vals)}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) {
		r.StartTime = "2024-06-10"
		r.EndTime = "2024-06-11"
	})

	resp, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 60.0, resp.Summary.Total)
	assert.Equal(t, 60.0, resp.Summary.AverageDaily)
	assert.Equal(t, 30.0, resp.Summary.PeakValue)
	require.NotNil(t, resp.Summary.PeakTime)
	assert.Equal(t, start.Add(2*time.Hour), *resp.Summary.PeakTime)
	assert.Equal(t, 20.0, resp.Summary.WeekdayAverage)
	assert.Equal(t, 0.0, resp.Summary.WeekendAverage)
}

// A summary request with mid-day bounds still covers the whole calendar
// days it touches.
func TestSummarizeWholeDayWindow(t *testing.T) {
	store := &fakeStore{}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) {
		r.StartTime = "2024-06-10T10:30:00Z"
		r.EndTime = "2024-06-11T14:00:00Z"
	})

	_, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), store.gotStart)
	assert.Equal(t, time.Date(2024, 6, 11, 23, 59, 59, 999999000, time.UTC), store.gotEnd)
}

// Series queries keep the caller's exact bounds.
func TestExecuteKeepsRequestBounds(t *testing.T) {
	store := &fakeStore{}
	svc := NewSeriesService(testLogger(), store, disabledCache(t))

	req := validatedRequest(t, func(r *models.SeriesRequest) {
		r.StartTime = "2024-06-10T10:30:00Z"
		r.EndTime = "2024-06-11T14:00:00Z"
	})

	_, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC), store.gotStart)
	assert.Equal(t, time.Date(2024, 6, 11, 14, 0, 0, 0, time.UTC), store.gotEnd)
}

func TestExecuteLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, zerolog.InfoLevel)

	v := 5.0
	store := &fakeStore{readings: hourlyReadings(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []*float64{&v, &v})}
	svc := NewSeriesService(logger, store, disabledCache(t))

	ctx := logging.WithRequestID(context.Background(), "req-42")
	_, err := svc.Execute(ctx, validatedRequest(t, nil))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "req-42")
}
