// Package handlers contains the HTTP layer. Handlers parse and
// validate transport-level input, delegate to services and translate
// service errors into HTTP responses.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatpulse/chatpulse/internal/cache"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/models"
	"github.com/chatpulse/chatpulse/internal/services"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	// Services
	predictionService *services.PredictionService
	anomalyService    *services.AnomalyService
	statsService      *services.StatsService
}

// New creates a new handler instance wired to the storage layer.
func New(logger *logging.Logger, store *storage.Store, resultCache *cache.ResultCache, seed int64) *Handler {
	return &Handler{
		logger:            logger,
		predictionService: services.NewPredictionService(logger, store, resultCache, seed),
		anomalyService:    services.NewAnomalyService(logger, store),
		statsService:      services.NewStatsService(logger, store),
	}
}

// NewWithServices wires pre-built services (used in tests).
func NewWithServices(logger *logging.Logger,
	predictionService *services.PredictionService,
	anomalyService *services.AnomalyService,
	statsService *services.StatsService,
) *Handler {
	return &Handler{
		logger:            logger,
		predictionService: predictionService,
		anomalyService:    anomalyService,
		statsService:      statsService,
	}
}

// serviceError maps a service error to its HTTP response.
func serviceError(c *fiber.Ctx, err error) error {
	svcErr, ok := err.(*services.ServiceError)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}

	status := fiber.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeInvalidHorizon, services.CodeUnsupportedTarget, services.CodeInvalidLookback:
		status = fiber.StatusBadRequest
	case services.CodeInsufficientData:
		status = fiber.StatusUnprocessableEntity
	case services.CodeGroupNotFound:
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}
