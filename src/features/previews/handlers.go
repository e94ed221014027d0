package previews

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/contre95/rawsolid/src/photo"
)

// Handler is the handler for the previews feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the previews feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetThumbnail returns the cache entry for ?path=, extracting it if needed.
func (h *Handler) GetThumbnail(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	entry, err := h.service.Thumbnail(c.UserContext(), path)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(entry)
}

// GetThumbnailFile serves a cached preview image by entry name.
func (h *Handler) GetThumbnailFile(c *fiber.Ctx) error {
	p, err := h.service.ThumbnailFile(c.Params("name"))
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(p)
}

// WarmThumbnails starts a background warm job for a directory.
func (h *Handler) WarmThumbnails(c *fiber.Ctx) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	jobID, err := h.service.WarmDirectory(c.UserContext(), req.Path)
	if err != nil {
		slog.Error("Error starting thumbnail warm", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch kind := photo.KindOf(err); {
	case kind == photo.KindPathNotFound, errors.Is(err, fs.ErrNotExist):
		status = fiber.StatusNotFound
	case kind == photo.KindInvalidFileName:
		status = fiber.StatusBadRequest
	case kind == photo.KindToolTimeout:
		status = fiber.StatusGatewayTimeout
	}
	body := fiber.Map{"error": err.Error(), "kind": photo.KindOf(err)}
	var pe *photo.Error
	if errors.As(err, &pe) && pe.Output != "" {
		body["output"] = pe.Output
	}
	return c.Status(status).JSON(body)
}
