package jobs

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

// JobResponse is a wrapper for the Job struct to include API links
type JobResponse struct {
	*Job
	Links map[string]string `json:"_links"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func newJobResponse(baseURL string, job *Job) *JobResponse {
	return &JobResponse{
		Job: job,
		Links: map[string]string{
			"self":   fmt.Sprintf("%s/jobs/%s", baseURL, job.ID),
			"logs":   fmt.Sprintf("%s/jobs/%s/logs", baseURL, job.ID),
			"cancel": fmt.Sprintf("%s/jobs/%s/cancel", baseURL, job.ID),
		},
	}
}

func (h *Handler) HandleJobStatus(c *fiber.Ctx) error {
	job, exists := h.service.GetJob(c.Params("id"))
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}
	return c.JSON(newJobResponse(c.BaseURL(), job))
}

func (h *Handler) HandleJobLogs(c *fiber.Ctx) error {
	job, exists := h.service.GetJob(c.Params("id"))
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}

	if job.LogPath == "" {
		return c.SendString("No logs for this job.")
	}

	logContent, err := os.ReadFile(job.LogPath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to read log file.")
	}

	if c.Query("color") == "true" {
		c.Set("Content-Type", "text/html")
		return c.SendString(ParseAndColorLogContent(string(logContent)))
	}
	c.Set("Content-Type", "text/plain")
	return c.SendString(string(logContent))
}

func (h *Handler) HandleJobList(c *fiber.Ctx) error {
	jobs := h.service.GetJobs()
	status := JobStatus(c.Query("status"))
	baseURL := c.BaseURL()
	responses := make([]*JobResponse, 0, len(jobs))
	for _, job := range jobs {
		if status != "" && job.Status != status {
			continue
		}
		responses = append(responses, newJobResponse(baseURL, job))
	}
	return c.JSON(responses)
}

func (h *Handler) HandleCancelJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if _, exists := h.service.GetJob(jobID); !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}
	if err := h.service.CancelJob(jobID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	job, _ := h.service.GetJob(jobID)
	return c.JSON(newJobResponse(c.BaseURL(), job))
}

func (h *Handler) HandleCleanupJobs(c *fiber.Ctx) error {
	removed := h.service.CleanupOldJobs(24 * time.Hour)
	return c.JSON(fiber.Map{"status": "cleanup completed", "removed": removed})
}

func (h *Handler) HandleClearFinishedJobs(c *fiber.Ctx) error {
	removed := h.service.ClearFinishedJobs()
	return c.JSON(fiber.Map{"status": "finished jobs cleared", "removed": removed})
}
