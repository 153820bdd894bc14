// Package api exposes the processing engine over HTTP using Fiber.
package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/insights"
)

// Server wires HTTP routes to the processing engine and insights service.
type Server struct {
	app       *fiber.App
	processor *engine.Processor
	insights  *insights.Service
	logger    *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(processor *engine.Processor, insightsSvc *insights.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "capling",
	})
	app.Use(recover.New())
	app.Use(cors.New())

	s := &Server{
		app:       app,
		processor: processor,
		insights:  insightsSvc,
		logger:    logger,
	}

	app.Get("/health", s.handleHealth)
	app.Post("/transactions", s.handleCreateTransaction)
	app.Get("/transactions", s.handleListTransactions)
	app.Post("/transactions/:id/justify", s.handleJustify)
	app.Get("/insights", s.handleInsights)

	return s
}

// App returns the underlying Fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// fail writes the failure envelope for an error, deriving the HTTP status
// and machine code from the error kind. Internal detail stays in the logs.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := common.HTTPStatus(err)
	code := common.ErrorCode(err)

	message := "internal server error"
	details := ""
	var appErr *common.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if status < fiber.StatusInternalServerError {
			details = appErr.Details
		}
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"code", code,
			"error", err)
	}

	body := fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	}
	if details != "" {
		body["details"] = details
	}
	return c.Status(status).JSON(body)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
