package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskflow/internal/config"
	"taskflow/internal/services"
)

// Server is the REST surface of taskflow
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *slog.Logger
}

// NewServer builds the fiber app with middleware and routes mounted under
// the configured base path. /health is never prefixed.
func NewServer(cfg *config.Config, container *services.ServiceContainer, log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "taskflow",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             cfg.Server.BodyLimit,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Application.Verbose}))
	app.Use(logger.New(logger.Config{
		Format:     "${status} ${method} ${path} ${latency}\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Output:     slog.NewLogLogger(log.Handler(), slog.LevelInfo).Writer(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	handlers := NewHandlers(container, log)
	registerRoutes(app, cfg.Server.BasePath, handlers, Authorize(container.AuthService, log))

	return &Server{app: app, config: cfg, logger: log}
}

func registerRoutes(app *fiber.App, basePath string, h *Handlers, authorize fiber.Handler) {
	app.Get("/health", h.Health)

	root := app.Group(basePath)

	authRoutes := root.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/logout", authorize, h.Logout)

	tasks := root.Group("/tasks", authorize)
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	user := root.Group("/user", authorize)
	user.Get("/profile", h.GetProfile)
	user.Put("/profile", h.UpdateProfile)
}

// App exposes the underlying fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown is called
func (s *Server) Listen() error {
	s.logger.Info("listening", "addr", s.config.Server.Addr, "base_path", s.config.Server.BasePath)
	return s.app.Listen(s.config.Server.Addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
