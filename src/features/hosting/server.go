package hosting

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/importing"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/features/metrics"
	"github.com/contre95/rawsolid/src/features/previews"
	"github.com/contre95/rawsolid/src/features/scanning"
	"github.com/contre95/rawsolid/src/features/ui"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, scanningService *scanning.Service, previewsService *previews.Service, importingService *importing.Service, jobService *jobs.Service, collector *metrics.Collector) *Server {
	engine := html.New("./views", ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= 500 {
				slog.Error("Internal Server Error", "error", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Rawsolid",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(recover.New())
	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	ui.RegisterRoutes(app, ui.NewHandler(cfg, importingService))
	config.RegisterRoutes(app, cfg)
	jobs.RegisterRoutes(app, jobService)
	scanning.RegisterRoutes(app, scanningService)
	previews.RegisterRoutes(app, previewsService)
	importing.RegisterRoutes(app, importingService)
	metrics.RegisterRoutes(app, collector)

	srv := cfg.Get().Server
	return &Server{app: app, addr: net.JoinHostPort(srv.Host, fmt.Sprint(srv.Port))}
}

// App exposes the underlying Fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
