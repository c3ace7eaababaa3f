package handler

import "github.com/gofiber/fiber/v2"

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	rayID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   rayID,
	})
}
