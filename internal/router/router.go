package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chatpulse/chatpulse/internal/cache"
	"github.com/chatpulse/chatpulse/internal/config"
	"github.com/chatpulse/chatpulse/internal/handlers"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/middleware"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, store *storage.Store, resultCache *cache.ResultCache, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, store, resultCache, cfg.Prediction.Seed)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Analytics Routes
	v1.Get("/groups/:group_id/predict", h.Predict)
	v1.Get("/groups/:group_id/anomalies", h.Anomalies)
	v1.Get("/groups/:group_id/stats", h.GroupStats)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, store *storage.Store, resultCache *cache.ResultCache, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ChatPulse Analytics",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, store, resultCache, cfg)

	return app
}
