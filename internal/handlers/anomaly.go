package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chatpulse/chatpulse/internal/models"
)

// Anomalies handles anomaly detection requests
// GET /v1/groups/:group_id/anomalies?days=30
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	groupID := c.Params("group_id")
	if groupID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "group_id is required",
			},
		})
	}

	daysStr := c.Query("days", "0")
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "days must be an integer",
				Details: map[string]interface{}{"days": daysStr},
			},
		})
	}

	report, err := h.anomalyService.DetectAnomalies(c.Context(), groupID, days)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}
