package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/models"
)

// ErrorHandler converts errors that escape a handler into the API's JSON
// error shape. Fiber errors keep their status and message; anything else is
// masked as a 500 so internal details never reach the client.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"
		code := "INTERNAL_ERROR"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
			if status < fiber.StatusInternalServerError {
				code = "REQUEST_FAILED"
			}
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err,
		)

		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: message,
			},
		})
	}
}
