package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RegisterRoutes registers the metrics routes with the Fiber app.
func RegisterRoutes(app *fiber.App, collector *Collector) {
	handler := NewHandler(NewService(collector))

	app.Get("/metrics", adaptor.HTTPHandler(collector.HTTPHandler()))
	app.Get("/metrics/summary", handler.GetSummary)
}
