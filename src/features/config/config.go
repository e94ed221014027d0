package config

import "time"

// Config holds the application configuration.
type Config struct {
	CachePath  string   `yaml:"cache_path" json:"cache_path" validate:"required"`
	Extensions []string `yaml:"extensions" json:"extensions" validate:"required,min=1,dive,required"`
	Source     Source   `yaml:"source" json:"source"`
	Import     Import   `yaml:"import" json:"import"`
	Previews   Previews `yaml:"previews" json:"previews"`
	Tools      Tools    `yaml:"tools" json:"tools"`
	Logger     Logger   `yaml:"logger" json:"logger"`
	Server     Server   `yaml:"server" json:"server"`
	Jobs       Jobs     `yaml:"jobs" json:"jobs"`
}

// Source describes where camera files are read from, typically a mounted card.
type Source struct {
	Path             string        `yaml:"path" json:"path"`
	AutoStartWatcher bool          `yaml:"auto_start_watcher" json:"auto_start_watcher"`
	Debounce         time.Duration `yaml:"debounce" json:"debounce"`
}

type Import struct {
	Destination     string `yaml:"destination" json:"destination" validate:"required"`
	Subfolders      string `yaml:"subfolders" json:"subfolders" validate:"oneof=none yyyy-mm-dd yyyymmdd yymmdd ddmmyy ddmm yyyyddmmm ddmmmyyyy"`
	Convert         bool   `yaml:"convert" json:"convert"`
	DeleteOriginals bool   `yaml:"delete_originals" json:"delete_originals"`
	Workers         int    `yaml:"workers" json:"workers" validate:"min=1"`
}

type Previews struct {
	Workers   int `yaml:"workers" json:"workers" validate:"min=1"`
	ChunkSize int `yaml:"chunk_size" json:"chunk_size" validate:"min=8192"`
}

// Tools holds the external binaries the pipeline shells out to.
type Tools struct {
	Exiftool     Exiftool     `yaml:"exiftool" json:"exiftool"`
	DNGConverter DNGConverter `yaml:"dng_converter" json:"dng_converter"`
}

type Exiftool struct {
	Path       string        `yaml:"path" json:"path" validate:"required"`
	PreviewTag string        `yaml:"preview_tag" json:"preview_tag" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

type DNGConverter struct {
	Path          string        `yaml:"path" json:"path"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	Preview       string        `yaml:"preview" json:"preview" validate:"oneof=none medium full"`
	Compressed    bool          `yaml:"compressed" json:"compressed"`
	Linear        bool          `yaml:"linear" json:"linear"`
	EmbedOriginal bool          `yaml:"embed_original" json:"embed_original"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes" json:"show_routes"`
	Host        string `yaml:"host" json:"host"`
	Port        uint32 `yaml:"port" json:"port" validate:"required"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" json:"format" validate:"oneof=json text logfmt"`
}

type Jobs struct {
	Log      bool          `yaml:"log" json:"log"`
	LogPath  string        `yaml:"log_path" json:"log_path"`
	Webhooks WebhookConfig `yaml:"webhooks" json:"webhooks"`
}

type WebhookConfig struct {
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	JobTypes []string `yaml:"job_types" json:"job_types"`
	Command  string   `yaml:"command" json:"command"`
}
