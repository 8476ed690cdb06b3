package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wattline/wattline/internal/models"
)

// WriteReadings handles reading ingestion.
// POST /v1/buildings/:building/metrics/:metric/readings
func (h *Handler) WriteReadings(c *fiber.Ctx) error {
	var body models.WriteReadingsRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}

	if err := body.Validate(); err != nil {
		return validationError(c, err)
	}

	result, err := h.writeService.Write(c.UserContext(),
		c.Params("building"), c.Params("metric"), &body)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(result)
}
