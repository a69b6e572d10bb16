package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/services"
)

// callerKey is the fiber Locals key holding the authenticated domain.Caller
const callerKey = "caller"

// Authorize resolves the Authorization header to a caller and stores it for
// the handlers. Requests that fail authentication stop here with 401.
func Authorize(authService services.AuthService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := authService.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return writeError(c, logger, err)
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// CallerFrom returns the caller stored by Authorize
func CallerFrom(c *fiber.Ctx) (domain.Caller, bool) {
	caller, ok := c.Locals(callerKey).(domain.Caller)
	return caller, ok && caller.UserID != ""
}

func requireCaller(c *fiber.Ctx) (domain.Caller, error) {
	caller, ok := CallerFrom(c)
	if !ok {
		return domain.Caller{}, errors.NewAuthenticationError(services.MsgNoToken, nil)
	}
	return caller, nil
}
