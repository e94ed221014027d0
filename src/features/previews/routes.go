package previews

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the previews feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	thumbnails := app.Group("/thumbnails")
	thumbnails.Get("/", handler.GetThumbnail)
	thumbnails.Get("/file/:name", handler.GetThumbnailFile)
	thumbnails.Post("/warm", handler.WarmThumbnails)
}
