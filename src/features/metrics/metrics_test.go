package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestSummary_CountsPipelineActivity(t *testing.T) {
	c := NewCollector()
	c.ThumbnailRequest("hit")
	c.ThumbnailRequest("hit")
	c.ThumbnailRequest("miss")
	c.ToolInvocation("exiftool", "ok")
	c.ImportFile("ok", 20*time.Millisecond)
	c.ImportFile("DateNotFound", time.Millisecond)

	samples, err := NewService(c).Summary()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	find := func(name string, labels map[string]string) float64 {
		for _, s := range samples {
			if s.Name != name {
				continue
			}
			match := true
			for k, v := range labels {
				if s.Labels[k] != v {
					match = false
				}
			}
			if match {
				return s.Value
			}
		}
		t.Errorf("sample %s %v not found", name, labels)
		return 0
	}

	if v := find("rawsolid_thumbnail_requests_total", map[string]string{"result": "hit"}); v != 2 {
		t.Errorf("expected 2 hits, got %v", v)
	}
	if v := find("rawsolid_tool_invocations_total", map[string]string{"tool": "exiftool", "result": "ok"}); v != 1 {
		t.Errorf("expected 1 invocation, got %v", v)
	}
	if v := find("rawsolid_import_file_duration_seconds", nil); v != 2 {
		t.Errorf("expected 2 observations, got %v", v)
	}
	for _, s := range samples {
		if !strings.HasPrefix(s.Name, "rawsolid_") {
			t.Errorf("unexpected foreign metric %s", s.Name)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	c := NewCollector()
	c.ThumbnailRequest("miss")
	app := fiber.New()
	RegisterRoutes(app, c)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `rawsolid_thumbnail_requests_total{result="miss"} 1`) {
		t.Errorf("expected counter in exposition, got %s", body)
	}
}
