package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
	"github.com/wattline/wattline/internal/services"
)

// Series handles series queries.
// GET /v1/buildings/:building/metrics/:metric/series?start=xxx&end=xxx&interval=daily&fill_missing=true&normalize=true&anomaly_method=iqr&anomaly_threshold=1.5
func (h *Handler) Series(c *fiber.Ctx) error {
	input, err := h.seriesRequestFromQuery(c)
	if input == nil {
		return err
	}

	result, err := h.seriesService.Execute(c.UserContext(), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// Summary handles consumption summary queries.
// GET /v1/buildings/:building/metrics/:metric/summary?start=xxx&end=xxx&fill_missing=true
func (h *Handler) Summary(c *fiber.Ctx) error {
	input, err := h.seriesRequestFromQuery(c)
	if input == nil {
		return err
	}

	result, err := h.seriesService.Summarize(c.UserContext(), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// seriesRequestFromQuery builds and validates a SeriesRequest from route and
// query parameters. A validation failure writes the 400 response and returns
// a nil request.
func (h *Handler) seriesRequestFromQuery(c *fiber.Ctx) (*models.SeriesRequest, error) {
	threshold, err := strconv.ParseFloat(c.Query("anomaly_threshold", "0"), 64)
	if err != nil {
		h.logger.Warn("Failed to parse anomaly_threshold parameter, using default",
			"anomaly_threshold", c.Query("anomaly_threshold"),
			"error", err)
		threshold = 0
	}

	input := models.NewSeriesRequest(
		c.Params("building"),
		c.Params("metric"),
		c.Query("start"),
		c.Query("end"),
		c.Query("days"),
		c.Query("interval"),
		c.QueryBool("fill_missing"),
		c.QueryBool("normalize"),
		c.Query("anomaly_method"),
		threshold,
	)

	if err := input.Validate(); err != nil {
		return nil, validationError(c, err)
	}
	return input, nil
}

// validationError writes a request validation failure as a 400 JSON response.
func validationError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: message,
		},
	})
}

// serviceError maps service layer errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status := fiber.StatusInternalServerError
		switch svcErr.Code {
		case services.CodeUnsupportedMethod, services.CodeNoValidReadings:
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	logging.FromContext(c.UserContext()).Error("Unexpected query failure",
		"path", c.Path(),
		"error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "QUERY_FAILED",
			Message: err.Error(),
		},
	})
}
