package importing

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the importing feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	imports := app.Group("/import")
	imports.Post("/", handler.Import)
	imports.Post("/sync", handler.ImportSync)
	imports.Get("/converter", handler.GetConverterStatus)
	imports.Get("/watcher", handler.GetWatcherStatus)
	imports.Post("/watcher/toggle", handler.ToggleWatcher)
}
