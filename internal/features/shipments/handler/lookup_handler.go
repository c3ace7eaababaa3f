package handler

import (
	"errors"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
)

// LookupHandler handles direct customs status queries.
type LookupHandler struct {
	lookupService *service.LookupService
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
	}
}

// GetCustomsStatus godoc
// @Summary Get customs status for a tracking code
// @Description Queries the customs portal for one tracking code through the shared lookup pool
// @Tags customs
// @Produce json
// @Param code path string true "Tracking Code"
// @Success 200 {object} domain.LookupResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /customs/{code} [get]
func (h *LookupHandler) GetCustomsStatus(c *fiber.Ctx) error {
	result, err := h.lookupService.Lookup(c.UserContext(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTrackingCode) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return errorJSON(c, fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(result)
}
