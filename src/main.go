package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/hosting"
	"github.com/contre95/rawsolid/src/features/importing"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/features/logging"
	"github.com/contre95/rawsolid/src/features/metrics"
	"github.com/contre95/rawsolid/src/features/previews"
	"github.com/contre95/rawsolid/src/features/scanning"
	"github.com/contre95/rawsolid/src/infra/command"
	"github.com/contre95/rawsolid/src/infra/dngconverter"
	"github.com/contre95/rawsolid/src/infra/exiftool"
	"github.com/contre95/rawsolid/src/infra/files"
	"github.com/contre95/rawsolid/src/infra/hashing"
	"github.com/contre95/rawsolid/src/infra/volumes"
	"github.com/contre95/rawsolid/src/infra/watcher"
	"github.com/contre95/rawsolid/src/photo"
)

func main() {
	configPath := "config.yaml"
	if p := os.Getenv("RAWSOLID_CONFIG"); p != "" {
		configPath = p
	}
	cfgManager, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	cfg := cfgManager.Get()
	collector := metrics.NewCollector()

	// Leaf components
	filter := photo.NewExtensionFilter(cfg.Extensions)
	discoverer := files.NewDiscoverer(filter)
	hasher := hashing.NewHasher(cfg.Previews.ChunkSize)
	exifRunner := command.NewRunner("exiftool", cfg.Tools.Exiftool.Path, cfg.Tools.Exiftool.Timeout, collector)
	metadataTool := exiftool.New(exifRunner, cfg.Tools.Exiftool.PreviewTag)
	dngRunner := command.NewRunner("dng_converter", cfg.Tools.DNGConverter.Path, cfg.Tools.DNGConverter.Timeout, collector)
	converter := dngconverter.New(dngRunner, dngconverter.Settings{
		Preview:       cfg.Tools.DNGConverter.Preview,
		Compressed:    cfg.Tools.DNGConverter.Compressed,
		Linear:        cfg.Tools.DNGConverter.Linear,
		EmbedOriginal: cfg.Tools.DNGConverter.EmbedOriginal,
	})
	if !metadataTool.Available(context.Background()) {
		slog.Warn("exiftool not found, thumbnails and imports will fail", "path", cfg.Tools.Exiftool.Path)
	}

	// Create the job service
	jobService := jobs.NewService(&cfg.Jobs)

	// Previews
	cache := previews.NewCache(cfg.CachePath, hasher, metadataTool, collector)
	previewsService := previews.NewService(cache, discoverer, cfgManager, jobService)
	jobService.RegisterHandler(previews.WarmJobType, jobs.NewBaseTaskHandler(previews.NewWarmTask(previewsService)))

	// Importing
	newWatcher := func(events chan<- watcher.FileEvent) (importing.Watcher, error) {
		w, err := watcher.NewWatcher(events, filter, cfgManager.Get().Source.Debounce)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	importingService := importing.NewService(
		importing.NewDateResolver(metadataTool),
		files.NewFileOrganizer(),
		converter,
		discoverer,
		collector,
		cfgManager,
		jobService,
		newWatcher,
		previewsService,
	)
	jobService.RegisterHandler(importing.ImportJobType, jobs.NewBaseTaskHandler(importing.NewImportTask(importingService)))

	scanningService := scanning.NewService(discoverer, volumes.NewLister())

	if cfg.Source.AutoStartWatcher {
		if err := importingService.StartWatcher(); err != nil {
			slog.Error("Failed to start file watcher", "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go jobService.RunCleanup(ctx, time.Hour, 24*time.Hour)

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, scanningService, previewsService, importingService, jobService, collector)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	if importingService.GetWatcherStatus() {
		if err := importingService.StopWatcher(); err != nil {
			slog.Warn("Failed to stop file watcher", "error", err)
		}
	}

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
