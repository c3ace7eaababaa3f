package handler

import (
	"shipment-tracker/internal/core/workerpool"

	"github.com/gofiber/fiber/v2"
)

// HealthResponse reports liveness and lookup pool usage.
type HealthResponse struct {
	Status string           `json:"status"`
	Pool   workerpool.Stats `json:"pool"`
}

// HealthHandler serves the health endpoint.
type HealthHandler struct {
	poolStats func() workerpool.Stats
}

// NewHealthHandler creates a new HealthHandler reading pool statistics from poolStats.
func NewHealthHandler(poolStats func() workerpool.Stats) *HealthHandler {
	return &HealthHandler{poolStats: poolStats}
}

// GetHealth godoc
// @Summary Health check
// @Description Reports service liveness and customs lookup pool statistics
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "ok",
		Pool:   h.poolStats(),
	})
}
