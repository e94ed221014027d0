package hosting

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/importing"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/features/metrics"
	"github.com/contre95/rawsolid/src/features/previews"
	"github.com/contre95/rawsolid/src/features/scanning"
	"github.com/contre95/rawsolid/src/infra/files"
	"github.com/contre95/rawsolid/src/infra/hashing"
	"github.com/contre95/rawsolid/src/infra/volumes"
	"github.com/contre95/rawsolid/src/photo"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{CachePath: t.TempDir()}
	cfg.Import.Destination = t.TempDir()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 3636
	manager := config.NewManager(cfg)
	jobService := jobs.NewService(&cfg.Jobs)
	discoverer := files.NewDiscoverer(photo.NewExtensionFilter(photo.DefaultExtensions))
	cache := previews.NewCache(cfg.CachePath, hashing.NewHasher(0), nil, nil)
	previewsService := previews.NewService(cache, discoverer, manager, jobService)
	importingService := importing.NewService(importing.NewDateResolver(nil), files.NewFileOrganizer(), nil,
		discoverer, nil, manager, jobService, nil, previewsService)
	return NewServer(manager, scanning.NewService(discoverer, volumes.NewLister()), previewsService, importingService, jobService, metrics.NewCollector())
}

func TestServer_Routes(t *testing.T) {
	app := newTestServer(t).App()

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/jobs/", http.StatusOK},
		{http.MethodGet, "/config", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/import/converter", http.StatusOK},
		{http.MethodGet, "/files", http.StatusBadRequest},
		{http.MethodGet, "/sources", http.StatusOK},
		{http.MethodGet, "/jobs/unknown", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("expected %d, got %d: %s", tt.status, resp.StatusCode, body)
			}
		})
	}
}

func TestServer_Address(t *testing.T) {
	if addr := newTestServer(t).addr; addr != "127.0.0.1:3636" {
		t.Errorf("unexpected address %s", addr)
	}
}
