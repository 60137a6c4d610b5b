package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatpulse/chatpulse/internal/models"
)

// GroupStats handles group statistics requests
// GET /v1/groups/:group_id/stats
func (h *Handler) GroupStats(c *fiber.Ctx) error {
	groupID := c.Params("group_id")
	if groupID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "group_id is required",
			},
		})
	}

	stats, err := h.statsService.GroupStats(c.Context(), groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}
