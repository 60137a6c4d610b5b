package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chatpulse/chatpulse/internal/models"
)

// Predict handles prediction requests
// GET /v1/groups/:group_id/predict?target=activity&horizon=7
func (h *Handler) Predict(c *fiber.Ctx) error {
	groupID := c.Params("group_id")
	if groupID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "group_id is required",
			},
		})
	}

	target := c.Query("target", models.TargetActivity)

	horizonStr := c.Query("horizon", "7")
	horizon, err := strconv.Atoi(horizonStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "horizon must be an integer",
				Details: map[string]interface{}{"horizon": horizonStr},
			},
		})
	}

	req := &models.PredictionRequest{
		GroupID:     groupID,
		Target:      target,
		HorizonDays: horizon,
	}
	result, err := h.predictionService.Predict(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
