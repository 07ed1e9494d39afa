package handlers

import (
	"time"

	"realhub-app/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "RealHub dev backend", fiber.Map{
		"service": "realhub-devserver",
		"version": "1.0.0",
	})
}

// HealthCheck reports service liveness
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	return response.Success(c, "OK", fiber.Map{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
