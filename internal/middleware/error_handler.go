package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorHandler is the single fault boundary of the app. Errors that carry an
// HTTP status (unknown routes, oversized bodies) keep it. Everything else is
// a fault: it is logged with full detail and answered with 500.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			msg := fiberErr.Message
			if fiberErr.Code == fiber.StatusNotFound {
				msg = "not found"
			}
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": msg})
		}

		logger.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", RequestID(c)).
			Msg("request failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
