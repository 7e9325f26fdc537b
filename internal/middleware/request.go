package middleware

import (
	"errors"
	"time"

	"productapi/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey is the fiber locals key holding the request id.
const RequestIDKey = "requestid"

// RequestIDs assigns every request a UUID, echoed in X-Request-ID.
func RequestIDs() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	})
}

// RequestID returns the id assigned by RequestIDs, or an empty string.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}

// RequestLogger writes one log line per request. Errors from later handlers
// are resolved through the app error handler first so the logged status is
// the one the client sees.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", RequestID(c)).
			Msg("request")
		return nil
	}
}

// Metrics records request counts and latencies per route pattern. It must be
// registered outside RequestLogger so the final status is known.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		m.RecordRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
