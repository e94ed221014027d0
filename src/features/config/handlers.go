package config

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig returns the current configuration in the requested format.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	format := c.Query("fmt", "yaml")
	slog.Debug("GetConfig handler called", "format", format)

	switch format {
	case "yaml":
		c.Set("Content-Type", "text/yaml")
		return c.SendString(h.configManager.GetYAML())
	case "json":
		c.Set("Content-Type", "application/json")
		return c.SendString(h.configManager.GetJSON())
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Invalid format. Use 'json' or 'yaml'")
	}
}

// UpdateConfig replaces the configuration with a YAML document.
// Server settings are kept. Sections that are wired at startup are reported
// under restart_required.
func (h *Handler) UpdateConfig(c *fiber.Ctx) error {
	slog.Info("Configuration update requested")
	current := h.configManager.Get()

	newConfig := *current
	if err := yaml.Unmarshal(c.Body(), &newConfig); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid YAML: " + err.Error()})
	}
	newConfig.Server = current.Server
	RestoreRedacted(&newConfig, current)

	if err := Validate(&newConfig); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	restart := RestartRequired(current, &newConfig)
	h.configManager.Update(&newConfig)
	if err := h.configManager.EnsureDirectories(); err != nil {
		slog.Error("failed to create configured directories", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if path := h.configManager.Path(); path != "" {
		if err := h.configManager.Save(path); err != nil {
			slog.Warn("failed to save config to file (this is normal in containerized environments)", "error", err)
		}
	}
	if len(restart) > 0 {
		slog.Warn("Configuration updated, some changes apply on restart", "fields", restart)
		return c.JSON(fiber.Map{
			"message":          "Configuration updated, some changes apply on restart",
			"restart_required": restart,
		})
	}
	return c.JSON(fiber.Map{"message": "Configuration updated successfully"})
}
