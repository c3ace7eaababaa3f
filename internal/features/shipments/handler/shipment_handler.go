package handler

import (
	"errors"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles HTTP requests for an account's shipments.
type ShipmentHandler struct {
	shipmentService *service.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentService *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

// GetShipments godoc
// @Summary List an account's shipments
// @Description Logs into the forwarding portal, extracts in-transit, expected and warehouse shipments and resolves customs status for parcels in transit
// @Tags shipments
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "Portal credentials"
// @Success 200 {array} domain.ShipmentRecord
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments [post]
func (h *ShipmentHandler) GetShipments(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	records, err := h.shipmentService.GetShipments(c.UserContext(), creds)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCredentials):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(records)
}
