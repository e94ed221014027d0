package importing

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/contre95/rawsolid/src/photo"
)

// Handler is the handler for the importing feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the importing feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ImportRequest is the body of the import endpoints. Path, when set, is
// discovered and its raw files are added to Sources. Missing fields fall
// back to the import section of the configuration.
type ImportRequest struct {
	Sources         []string `json:"sources"`
	Path            string   `json:"path"`
	Destination     string   `json:"destination"`
	Convert         *bool    `json:"convert"`
	DeleteOriginals *bool    `json:"deleteOriginals"`
}

// FileResultResponse is the JSON form of a photo.FileResult.
type FileResultResponse struct {
	Source      string          `json:"source"`
	Date        string          `json:"date,omitempty"`
	Destination string          `json:"destination,omitempty"`
	OK          bool            `json:"ok"`
	Kind        photo.ErrorKind `json:"kind,omitempty"`
	Error       string          `json:"error,omitempty"`
	Output      string          `json:"output,omitempty"`
}

func (h *Handler) parseJob(c *fiber.Ctx) (photo.ImportJob, error) {
	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return photo.ImportJob{}, fmt.Errorf("%w: cannot parse request body", errInvalidJob)
	}
	cfg := h.service.config.Get().Import
	job := photo.ImportJob{
		DestinationRoot: req.Destination,
		Convert:         cfg.Convert,
		DeleteOriginals: cfg.DeleteOriginals,
	}
	if job.DestinationRoot == "" {
		job.DestinationRoot = cfg.Destination
	}
	if req.Convert != nil {
		job.Convert = *req.Convert
	}
	if req.DeleteOriginals != nil {
		job.DeleteOriginals = *req.DeleteOriginals
	}
	var dirs []string
	if req.Path != "" {
		dirs = append(dirs, req.Path)
	}
	sources, err := h.service.ExpandSources(req.Sources, dirs...)
	if err != nil {
		return photo.ImportJob{}, err
	}
	job.Sources = sources
	return job, nil
}

// Import starts a background import job.
func (h *Handler) Import(c *fiber.Ctx) error {
	job, err := h.parseJob(c)
	if err != nil {
		return requestError(c, err)
	}
	jobID, err := h.service.Import(c.UserContext(), job)
	if err != nil {
		return requestError(c, err)
	}
	slog.Info("Import: job started", "jobID", jobID, "files", len(job.Sources))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// ImportSync runs an import inline and returns one result per source.
func (h *Handler) ImportSync(c *fiber.Ctx) error {
	job, err := h.parseJob(c)
	if err != nil {
		return requestError(c, err)
	}
	report, err := h.service.ImportSync(c.UserContext(), job)
	if err != nil {
		return requestError(c, err)
	}
	results := make([]FileResultResponse, len(report.Results))
	for i, res := range report.Results {
		results[i] = FileResultResponse{
			Source:      res.Source,
			Date:        res.Date,
			Destination: res.Destination,
			OK:          res.OK(),
		}
		if !res.OK() {
			results[i].Kind = res.Kind()
			results[i].Error = res.Err.Error()
			var pe *photo.Error
			if errors.As(res.Err, &pe) {
				results[i].Output = pe.Output
			}
		}
	}
	return c.JSON(fiber.Map{
		"results":   results,
		"succeeded": len(report.Succeeded()),
		"failed":    len(report.Failed()),
	})
}

// GetConverterStatus reports whether the conversion tool is installed.
func (h *Handler) GetConverterStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"available": h.service.ConverterAvailable(c.UserContext())})
}

// ToggleWatcher toggles the file system watcher on/off
func (h *Handler) ToggleWatcher(c *fiber.Ctx) error {
	var err error
	var msg, action string
	if h.service.GetWatcherStatus() {
		action = "stop"
		err = h.service.StopWatcher()
		msg = "File watcher stopped successfully"
	} else {
		action = "start"
		err = h.service.StartWatcher()
		msg = "File watcher started successfully"
	}
	if err != nil {
		slog.Error("Failed to toggle watcher", "action", action, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to " + action + " file watcher: " + err.Error()})
	}
	return c.JSON(fiber.Map{"message": msg, "running": h.service.GetWatcherStatus()})
}

// GetWatcherStatus returns the current status of the watcher
func (h *Handler) GetWatcherStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"running": h.service.GetWatcherStatus()})
}

func requestError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidJob):
		status = fiber.StatusBadRequest
	case photo.KindOf(err) == photo.KindPathNotFound:
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": photo.KindOf(err)})
}
