// Package router wires middlewares and routes into the Fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wattline/wattline/internal/cache"
	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/handlers"
	"github.com/wattline/wattline/internal/ingest"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/middleware"
	"github.com/wattline/wattline/internal/queue"
	"github.com/wattline/wattline/internal/storage"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, store storage.Store,
	resultCache *cache.Cache, publisher queue.Publisher, cfg config.Config, version string,
) *handlers.Handler {
	h := handlers.New(logger, store, resultCache, publisher, ingest.Subject(cfg.Ingest), version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Series and summary queries
	v1.Get("/buildings/:building/metrics/:metric/series", h.Series)
	v1.Get("/buildings/:building/metrics/:metric/summary", h.Summary)

	// Reading ingestion
	v1.Post("/buildings/:building/metrics/:metric/readings", h.WriteReadings)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, store storage.Store, resultCache *cache.Cache,
	publisher queue.Publisher, cfg config.Config, version string,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Wattline API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, store, resultCache, publisher, cfg, version)

	return app
}
