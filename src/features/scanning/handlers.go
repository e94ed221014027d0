package scanning

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contre95/rawsolid/src/photo"
)

// Handler is the handler for the scanning feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the scanning feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fileResponse struct {
	photo.FileRecord
	HumanSize string `json:"humanSize"`
}

// ListFiles returns the raw files under ?path=.
func (h *Handler) ListFiles(c *fiber.Ctx) error {
	root := c.Query("path")
	if root == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	records, summary, err := h.service.Scan(root)
	if err != nil {
		status := fiber.StatusInternalServerError
		if photo.KindOf(err) == photo.KindPathNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": photo.KindOf(err)})
	}
	files := make([]fileResponse, len(records))
	for i, r := range records {
		files[i] = fileResponse{FileRecord: r, HumanSize: r.HumanSize()}
	}
	return c.JSON(fiber.Map{"files": files, "summary": summary})
}

// ListSources returns the mounted removable volumes.
func (h *Handler) ListSources(c *fiber.Ctx) error {
	vols, err := h.service.Sources()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "kind": photo.KindOf(err)})
	}
	if vols == nil {
		vols = []photo.Volume{}
	}
	return c.JSON(fiber.Map{"sources": vols})
}
