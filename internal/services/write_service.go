package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/wattline/wattline/internal/cache"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/timeutil"
)

// WriteService accepts reading writes and hands them to the ingestion
// queue. Persistence happens asynchronously in the ingest worker.
type WriteService struct {
	logger  *logging.Logger
	pub     queue.Publisher
	cache   *cache.Cache
	subject string
}

// NewWriteService creates a WriteService publishing to the given subject.
func NewWriteService(logger *logging.Logger, pub queue.Publisher, resultCache *cache.Cache, subject string) *WriteService {
	if subject == "" {
		subject = "readings"
	}
	return &WriteService{
		logger:  logger,
		pub:     pub,
		cache:   resultCache,
		subject: subject,
	}
}

// Write converts the request into a reading batch and publishes it.
// Readings with unparseable timestamps are rejected individually, they do
// not fail the request.
func (s *WriteService) Write(ctx context.Context, buildingID, metric string, req *models.WriteReadingsRequest) (*models.WriteReadingsResponse, error) {
	batch := models.ReadingBatch{
		BatchID: uuid.NewString(),
		Source:  "api",
	}

	rejected := 0
	for _, r := range req.Readings {
		ts, err := timeutil.Parse(r.Time)
		if err != nil {
			rejected++
			continue
		}
		batch.Readings = append(batch.Readings, models.Reading{
			BuildingID: buildingID,
			Metric:     metric,
			Time:       ts,
			Value:      r.Value,
		})
	}

	if len(batch.Readings) == 0 {
		return nil, NewServiceError(CodeNoValidReadings, "no readings with a parseable timestamp")
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, NewServiceErrorWithDetails(CodeEncodeFailed, "failed to encode batch",
			map[string]interface{}{"error": err.Error()})
	}

	if err := s.pub.Publish(ctx, s.subject, data); err != nil {
		s.logger.WithContext(ctx).Error("Failed to publish reading batch",
			"batch_id", batch.BatchID,
			"error", err)
		return nil, NewServiceErrorWithDetails(CodePublishFailed, "failed to enqueue readings",
			map[string]interface{}{"error": err.Error()})
	}

	// Cached series for this building/metric are stale now.
	s.cache.Invalidate(ctx, "series")
	s.cache.Invalidate(ctx, "summary")

	s.logger.WithContext(ctx).Info("Reading batch accepted",
		"batch_id", batch.BatchID,
		"building", buildingID,
		"metric", metric,
		"accepted", len(batch.Readings),
		"rejected", rejected)

	return &models.WriteReadingsResponse{
		BatchID:  batch.BatchID,
		Accepted: len(batch.Readings),
		Rejected: rejected,
	}, nil
}
