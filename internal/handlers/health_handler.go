package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and storage health.
type HealthHandler struct {
	storage Pinger
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storage Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// RegisterRoutes registers the health check route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when storage responds and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check: storage unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "degraded",
			"storage": "unavailable",
			"time":    time.Now().Format(time.RFC3339),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"storage": "connected",
		"time":    time.Now().Format(time.RFC3339),
	})
}
