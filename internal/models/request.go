package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wattline/wattline/internal/analytics/anomaly"
	"github.com/wattline/wattline/internal/timeutil"
	"github.com/wattline/wattline/internal/utils"
)

// SeriesRequest carries the parameters of a series or summary query.
// Raw string fields come from the HTTP layer; parsed fields are populated
// by Validate.
type SeriesRequest struct {
	BuildingID string
	Metric     string
	StartTime  string
	EndTime    string
	Days       string // optional alternative to EndTime: day count from start
	Interval   string // optional: hourly, daily, weekly, monthly

	FillMissing bool
	Normalize   bool

	AnomalyMethod    string // optional: iqr, zscore, moving_avg
	AnomalyThreshold float64

	// Populated by Validate
	StartTimeParsed time.Time
	EndTimeParsed   time.Time
	IntervalParsed  timeutil.Interval
	MethodParsed    anomaly.Method
}

// NewSeriesRequest creates a series request with primitive parameters.
func NewSeriesRequest(buildingID, metric, startTime, endTime, days, interval string,
	fillMissing, normalize bool, anomalyMethod string, anomalyThreshold float64) *SeriesRequest {
	return &SeriesRequest{
		BuildingID:       buildingID,
		Metric:           metric,
		StartTime:        startTime,
		EndTime:          endTime,
		Days:             days,
		Interval:         interval,
		FillMissing:      fillMissing,
		Normalize:        normalize,
		AnomalyMethod:    anomalyMethod,
		AnomalyThreshold: anomalyThreshold,
	}
}

// Validate checks required fields and parses times, interval and anomaly
// method. Timestamps accept the full heterogeneous format set, including
// relative terms.
func (r *SeriesRequest) Validate() error {
	if r.BuildingID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "building is required")
	}
	if r.Metric == "" {
		return fiber.NewError(fiber.StatusBadRequest, "metric is required")
	}
	if r.StartTime == "" {
		return fiber.NewError(fiber.StatusBadRequest, "start is required")
	}

	start, err := timeutil.Parse(r.StartTime)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid start: "+err.Error())
	}

	var endPtr *time.Time
	if r.EndTime != "" {
		end, err := timeutil.Parse(r.EndTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end: "+err.Error())
		}
		endPtr = &end
	}

	var daysPtr *int
	if r.Days != "" {
		days, err := strconv.Atoi(r.Days)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid days: "+r.Days)
		}
		daysPtr = &days
	}

	rangeStart, rangeEnd, err := timeutil.DateRange(start, timeutil.RangeOptions{
		End:         endPtr,
		Days:        daysPtr,
		IncludeTime: true,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	r.StartTimeParsed = rangeStart
	r.EndTimeParsed = rangeEnd

	if !r.StartTimeParsed.Before(r.EndTimeParsed) {
		return fiber.NewError(fiber.StatusBadRequest, "start must be before end")
	}

	if r.Interval != "" {
		interval, err := timeutil.ParseInterval(r.Interval)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		r.IntervalParsed = interval
	}

	if r.AnomalyMethod != "" {
		method, err := anomaly.ParseMethod(r.AnomalyMethod)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		r.MethodParsed = method
		if r.AnomalyThreshold <= 0 {
			r.AnomalyThreshold = anomaly.DefaultThreshold
		}
	}

	return nil
}

// WriteReadingsRequest is the POST body for reading ingestion.
type WriteReadingsRequest struct {
	Readings []WriteReading `json:"readings"`
}

// WriteReading is a single reading in a write request. Time accepts the
// heterogeneous format set.
type WriteReading struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// UnmarshalJSON accepts heterogeneous value encodings. Meters report values
// as JSON numbers or numeric strings; anything else becomes a missing
// reading, matching the CSV importer.
func (r *WriteReading) UnmarshalJSON(data []byte) error {
	var raw struct {
		Time  string      `json:"time"`
		Value interface{} `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Time = raw.Time
	r.Value = nil
	if f, ok := utils.ToFloat64(raw.Value); ok {
		r.Value = &f
	}
	return nil
}

// Validate checks the write request shape.
func (r *WriteReadingsRequest) Validate() error {
	if len(r.Readings) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "readings must not be empty")
	}
	for i, reading := range r.Readings {
		if reading.Time == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				"readings["+strconv.Itoa(i)+"].time is required")
		}
	}
	return nil
}
