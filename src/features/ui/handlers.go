package ui

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/photo"
)

// ConverterProbe reports whether format conversion is available.
type ConverterProbe interface {
	ConverterAvailable(ctx context.Context) bool
}

// Handler is the handler for the UI feature.
type Handler struct {
	configManager *config.Manager
	converter     ConverterProbe
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(configManager *config.Manager, converter ConverterProbe) *Handler {
	return &Handler{
		configManager: configManager,
		converter:     converter,
	}
}

// RenderMain renders the single page of the app.
func (h *Handler) RenderMain(c *fiber.Ctx) error {
	slog.Debug("RenderMain handler called")
	cfg := h.configManager.Get()
	return c.Render("main", fiber.Map{
		"Title":              "Rawsolid",
		"SourcePath":         cfg.Source.Path,
		"Destination":        cfg.Import.Destination,
		"CachePath":          cfg.CachePath,
		"Subfolders":         cfg.Import.Subfolders,
		"Layouts":            photo.Layouts,
		"Convert":            cfg.Import.Convert,
		"DeleteOriginals":    cfg.Import.DeleteOriginals,
		"ConverterAvailable": h.converter.ConverterAvailable(c.UserContext()),
	})
}
