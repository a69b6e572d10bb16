package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/domain"
	"taskflow/internal/services"
)

// Handlers contains the HTTP handlers for tasks, sessions and profiles
type Handlers struct {
	services *services.ServiceContainer
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(container *services.ServiceContainer, logger *slog.Logger) *Handlers {
	return &Handlers{
		services: container,
		logger:   logger,
	}
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	return writeError(c, h.logger, err)
}

// Health reports that the process is serving
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}

// ListTasks handles GET /tasks?status=&priority=&search=
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	filter := domain.NewTaskFilter(c.Query("status"), c.Query("priority"), c.Query("search"))
	tasks, err := h.services.TaskService.ListTasks(c.UserContext(), caller, filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(tasks)
}

// CreateTask handles POST /tasks
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	var input domain.NewTask
	if err := decodeBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	task, err := h.services.TaskService.CreateTask(c.UserContext(), caller, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTask handles GET /tasks/:id
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	task, err := h.services.TaskService.GetTask(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

// UpdateTask handles PUT /tasks/:id
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	var patch domain.TaskPatch
	if err := decodeBody(c, &patch); err != nil {
		return h.fail(c, err)
	}

	task, err := h.services.TaskService.UpdateTask(c.UserContext(), caller, c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

// DeleteTask handles DELETE /tasks/:id
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.services.TaskService.DeleteTask(c.UserContext(), caller, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(MessageResponse{Message: msgTaskRemoved})
}

// Register handles POST /auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var input domain.Registration
	if err := decodeBody(c, &input); err != nil {
		return h.fail(c, err)
	}

	session, err := h.services.AuthService.Register(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles POST /auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var credentials domain.Credentials
	if err := decodeBody(c, &credentials); err != nil {
		return h.fail(c, err)
	}

	session, err := h.services.AuthService.Login(c.UserContext(), credentials)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(session)
}

// Logout handles POST /auth/logout, revoking the presented token
func (h *Handlers) Logout(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.services.AuthService.Logout(c.UserContext(), caller); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(MessageResponse{Message: msgLoggedOut})
}

// GetProfile handles GET /user/profile
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	user, err := h.services.ProfileService.GetProfile(c.UserContext(), caller)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /user/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return h.fail(c, err)
	}

	var patch domain.ProfilePatch
	if err := decodeBody(c, &patch); err != nil {
		return h.fail(c, err)
	}

	user, err := h.services.ProfileService.UpdateProfile(c.UserContext(), caller, patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}
