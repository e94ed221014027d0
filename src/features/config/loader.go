package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/contre95/rawsolid/src/infra/dngconverter"
	"github.com/contre95/rawsolid/src/infra/exiftool"
	"github.com/contre95/rawsolid/src/photo"
)

// Environment variables that override the file.
const (
	EnvCachePath    = "RAWSOLID_CACHE_PATH"
	EnvDestination  = "RAWSOLID_DESTINATION"
	EnvExiftool     = "RAWSOLID_EXIFTOOL"
	EnvDNGConverter = "RAWSOLID_DNG_CONVERTER"
)

var validate = validator.New()

// Load reads a YAML file from the given path and returns a new ConfigManager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	cfg := createDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		if err := saveDefaultConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		slog.Info("Default configuration created successfully", "path", path)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		// Decoding over the defaults keeps them for keys the file omits.
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	manager := NewManager(cfg)
	manager.path = path
	if err := manager.EnsureDirectories(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvCachePath); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv(EnvDestination); v != "" {
		cfg.Import.Destination = v
	}
	if v := os.Getenv(EnvExiftool); v != "" {
		cfg.Tools.Exiftool.Path = v
	}
	if v := os.Getenv(EnvDNGConverter); v != "" {
		cfg.Tools.DNGConverter.Path = v
	}
}

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		CachePath:  "./cache/thumbnails",
		Extensions: append([]string(nil), photo.DefaultExtensions...),
		Source: Source{
			Path:             "",
			AutoStartWatcher: false,
			Debounce:         5 * time.Second,
		},
		Import: Import{
			Destination:     "./photos",
			Subfolders:      string(photo.LayoutISO),
			Convert:         false,
			DeleteOriginals: false,
			Workers:         1,
		},
		Previews: Previews{
			Workers:   4,
			ChunkSize: 64 * 1024,
		},
		Tools: Tools{
			Exiftool: Exiftool{
				Path:       "exiftool",
				PreviewTag: exiftool.DefaultPreviewTag,
				Timeout:    30 * time.Second,
			},
			DNGConverter: DNGConverter{
				Path:          dngconverter.DefaultBinary(),
				Timeout:       5 * time.Minute,
				Preview:       dngconverter.PreviewMedium,
				Compressed:    true,
				Linear:        false,
				EmbedOriginal: false,
			},
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Server: Server{
			PrintRoutes: false,
			Host:        "127.0.0.1",
			Port:        3636,
		},
		Jobs: Jobs{
			Log:     true,
			LogPath: "./logs/jobs",
			Webhooks: WebhookConfig{
				Enabled:  false,
				JobTypes: []string{},
				Command:  "",
			},
		},
	}
}

// saveDefaultConfig saves the default configuration to the specified file path
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}
