// Package handlers contains the HTTP handlers for the reading query and
// ingestion API.
package handlers

import (
	"github.com/wattline/wattline/internal/cache"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/services"
	"github.com/wattline/wattline/internal/storage"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger  *logging.Logger
	version string

	seriesService *services.SeriesService
	writeService  *services.WriteService
}

// New creates a handler instance with its service layer.
func New(logger *logging.Logger, store storage.Store, resultCache *cache.Cache,
	publisher queue.Publisher, ingestSubject, version string,
) *Handler {
	return &Handler{
		logger:        logger,
		version:       version,
		seriesService: services.NewSeriesService(logger, store, resultCache),
		writeService:  services.NewWriteService(logger, publisher, resultCache, ingestSubject),
	}
}
