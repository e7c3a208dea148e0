package server

import (
	"context"
	"errors"

	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/usecase/idea"
	"github.com/daper-app/daper/pkg/usecase/mindmap"
	"github.com/daper-app/daper/pkg/usecase/usage"
	"github.com/daper-app/daper/pkg/usecase/user"
	"github.com/daper-app/daper/pkg/utils/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// Server exposes the usecases as a JSON HTTP API. Authentication is delegated
// to the fronting identity-aware proxy, which injects the verified user ID as
// the X-Daper-User header.
type Server struct {
	app      *fiber.App
	ideas    *idea.UseCase
	mindmaps *mindmap.UseCase
	usage    *usage.UseCase
	users    *user.UseCase
	validate *validator.Validate
}

// New creates a Server and registers all routes
func New(
	ideas *idea.UseCase,
	mindmaps *mindmap.UseCase,
	usageUC *usage.UseCase,
	users *user.UseCase,
) *Server {
	s := &Server{
		ideas:    ideas,
		mindmaps: mindmaps,
		usage:    usageUC,
		users:    users,
		validate: validator.New(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "daper",
		ErrorHandler: errorHandler,
	})

	s.app.Use(requestid.New())
	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/api/v1")
	v1.Use(requireUser)

	v1.Post("/ideas", s.handleGenerateIdea)
	v1.Get("/ideas", s.handleListIdeas)
	v1.Get("/ideas/:id", s.handleGetIdea)
	v1.Patch("/ideas/:id", s.handleUpdateIdea)
	v1.Delete("/ideas/:id", s.handleDeleteIdea)
	v1.Put("/ideas/:id/favorite", s.handleToggleFavorite)

	v1.Post("/ideas/:id/mindmap", s.handleRegenerateMindMap)
	v1.Post("/ideas/:id/mindmap/nodes", s.handleAddMindMapNode)
	v1.Patch("/ideas/:id/mindmap/nodes", s.handleEditMindMapNode)
	v1.Delete("/ideas/:id/mindmap/nodes", s.handleDeleteMindMapNode)
	v1.Post("/ideas/:id/mindmap/expand", s.handleExpandMindMapNode)

	v1.Post("/ideas/:id/suggestions", s.handleSuggestions)
	v1.Post("/ideas/:id/business-plan", s.handleBusinessPlan)

	v1.Get("/usage", s.handleGetUsage)
	v1.Post("/users/login", s.handleLogin)

	return s
}

// Listen serves HTTP on addr until the listener fails or Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App returns the underlying fiber app, used by tests
func (s *Server) App() *fiber.App {
	return s.app
}

// requireUser extracts the proxy-verified user identity
func requireUser(c fiber.Ctx) error {
	uid := c.Get("X-Daper-User")
	if uid == "" {
		return fiber.ErrUnauthorized
	}
	c.Locals("uid", uid)
	return c.Next()
}

func userID(c fiber.Ctx) string {
	uid, _ := c.Locals("uid").(string)
	return uid
}

// errorHandler maps the sentinel taxonomy to HTTP statuses. Expected business
// outcomes keep their message; anything unexpected is logged in full and
// surfaced only as a generic failure.
func errorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, model.ErrDuplicateSubmission):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already processing, please wait"})
	case errors.Is(err, model.ErrCannotDeleteRoot), errors.Is(err, model.ErrPathMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrQuotaDailyExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "daily generation limit reached, upgrade for unlimited generations",
		})
	case errors.Is(err, model.ErrQuotaIdeasExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "saved idea limit reached, upgrade for unlimited ideas",
		})
	case errors.Is(err, model.ErrGenerationFailed):
		logging.From(c.Context()).Error("generation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate, please try again",
		})
	}

	logging.From(c.Context()).Error("request failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func dataResponse(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}
