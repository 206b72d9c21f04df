package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/oiangu/trenbide/internal/pkg/metrics"
)

// SetupRoutes registers the three endpoints named in spec §6, plus
// Prometheus scraping. No GraphQL, WebSocket, docs, pagination, ETag, or
// deprecation middleware — those are out of scope for this facade.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	app.Get("/health", HealthHandler(deps))
	app.Get("/stations", StationsHandler(deps))
	app.Post("/path", PathHandler(deps))
}
