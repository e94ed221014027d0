package importing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func postJSON(t *testing.T, app *fiber.App, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestImportSync_Handler(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSource(t, src, "a.cr2")
	writeSource(t, src, "b.cr2")
	tool := &mockTool{dates: map[string]string{"a.cr2": "2024:03:15 09:00:00"}}
	svc, _ := newTestService(t, tool, nil, nil)
	app := fiber.New()
	RegisterRoutes(app, svc)

	body, _ := json.Marshal(ImportRequest{Path: src, Destination: dest})
	resp := postJSON(t, app, "/import/sync", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Results   []FileResultResponse `json:"results"`
		Succeeded int                  `json:"succeeded"`
		Failed    int                  `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Succeeded != 1 || out.Failed != 1 || len(out.Results) != 2 {
		t.Fatalf("unexpected report %+v", out)
	}
	if out.Results[0].Destination != filepath.Join(dest, "2024-03-15", "a.cr2") {
		t.Errorf("unexpected destination %s", out.Results[0].Destination)
	}
	if out.Results[1].OK || out.Results[1].Kind != "DateNotFound" {
		t.Errorf("unexpected failure %+v", out.Results[1])
	}
}

func TestImport_HandlerErrors(t *testing.T) {
	svc, _ := newTestService(t, &mockTool{}, nil, nil)
	svc.config.Get().Import.Destination = t.TempDir()
	app := fiber.New()
	RegisterRoutes(app, svc)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"no sources", `{}`, http.StatusBadRequest},
		{"bad body", `{"sources":`, http.StatusBadRequest},
		{"missing path", `{"path":"` + filepath.Join(t.TempDir(), "gone") + `"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := postJSON(t, app, "/import/", tt.body); resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}
