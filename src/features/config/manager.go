package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	path   string
}

// NewManager creates a new ConfigManager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Path returns the file the configuration was loaded from, if any.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Update updates the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.config = config

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"cache_path_changed", oldConfig.CachePath != config.CachePath,
			"destination_changed", oldConfig.Import.Destination != config.Import.Destination,
			"subfolders_changed", oldConfig.Import.Subfolders != config.Import.Subfolders,
			"source_changed", oldConfig.Source.Path != config.Source.Path,
			"logger_level_changed", oldConfig.Logger.Level != config.Logger.Level,
		)
	}
}

// Save writes the current configuration to the specified file path.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create config file", "path", path, "error", err)
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.config); err != nil {
		slog.Error("failed to encode config", "path", path, "error", err)
		return err
	}

	slog.Info("Configuration saved successfully", "path", path)
	return nil
}

// EnsureDirectories creates the cache, destination and job log directories if they don't exist.
func (m *Manager) EnsureDirectories() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if err := os.MkdirAll(cfg.CachePath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", cfg.CachePath, err)
	}

	if err := os.MkdirAll(cfg.Import.Destination, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", cfg.Import.Destination, err)
	}

	if cfg.Jobs.Log && cfg.Jobs.LogPath != "" {
		if err := os.MkdirAll(cfg.Jobs.LogPath, 0755); err != nil {
			return fmt.Errorf("failed to create job log directory %s: %w", cfg.Jobs.LogPath, err)
		}
	}

	slog.Info("Required directories created/verified", "cache", cfg.CachePath, "destination", cfg.Import.Destination)
	return nil
}

// Redacted replaces secrets in the YAML and JSON renderings of the config.
const Redacted = "<redacted>"

// redactedCfg gets a redacted copy of the Config
func (m *Manager) redactedCfg() Config {
	cfgCpy := *m.config
	if cfgCpy.Jobs.Webhooks.Command != "" {
		cfgCpy.Jobs.Webhooks.Command = Redacted
	}
	return cfgCpy
}

// RestoreRedacted puts back the secrets a client received as Redacted and
// sent unchanged.
func RestoreRedacted(updated, current *Config) {
	if updated.Jobs.Webhooks.Command == Redacted {
		updated.Jobs.Webhooks.Command = current.Jobs.Webhooks.Command
	}
}

// RestartRequired lists the sections that differ between old and updated
// but are only read when the components are built at startup.
func RestartRequired(old, updated *Config) []string {
	var fields []string
	if old.CachePath != updated.CachePath {
		fields = append(fields, "cache_path")
	}
	if !slices.Equal(old.Extensions, updated.Extensions) {
		fields = append(fields, "extensions")
	}
	if old.Previews.ChunkSize != updated.Previews.ChunkSize {
		fields = append(fields, "previews.chunk_size")
	}
	if old.Tools != updated.Tools {
		fields = append(fields, "tools")
	}
	if old.Logger != updated.Logger {
		fields = append(fields, "logger")
	}
	oj, uj := old.Jobs, updated.Jobs
	if oj.Log != uj.Log || oj.LogPath != uj.LogPath || oj.Webhooks.Enabled != uj.Webhooks.Enabled ||
		oj.Webhooks.Command != uj.Webhooks.Command || !slices.Equal(oj.Webhooks.JobTypes, uj.Webhooks.JobTypes) {
		fields = append(fields, "jobs")
	}
	return fields
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

func (m *Manager) GetYAML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
